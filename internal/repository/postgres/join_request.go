package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/repository"
)

const selectJoinRequest = `SELECT jr.id, jr.user_id, jr.office_id, jr.role, jr.status, jr.created_at,
       jr.decided_at, jr.decided_by,
       u.name AS user_name, u.email AS user_email, o.name AS office_name
FROM join_requests jr
JOIN users u ON u.id = jr.user_id
JOIN offices o ON o.id = jr.office_id`

type joinRequestRepository struct {
	db database.Handler
}

func NewJoinRequestRepository(db database.Handler) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	query := `INSERT INTO join_requests (user_id, office_id, status)
	          VALUES ($1, $2, $3) RETURNING id, created_at`
	req.Status = domain.JoinRequestStatusPending
	err := r.db.QueryRowxContext(ctx, query, req.UserID, req.OfficeID, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	return mapError(err)
}

func (r *joinRequestRepository) get(ctx context.Context, query string, args ...interface{}) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	if err := r.db.GetContext(ctx, req, query, args...); err != nil {
		return nil, mapError(err)
	}
	return req, nil
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	return r.get(ctx, selectJoinRequest+` WHERE jr.id = $1`, id)
}

func (r *joinRequestRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	return r.get(ctx, selectJoinRequest+` WHERE jr.id = $1 FOR UPDATE OF jr`, id)
}

func (r *joinRequestRepository) GetPendingByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	return r.get(ctx, selectJoinRequest+` WHERE jr.user_id = $1 AND jr.status = 'pending'`, userID)
}

func (r *joinRequestRepository) GetLatestByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	return r.get(ctx, selectJoinRequest+` WHERE jr.user_id = $1 ORDER BY jr.created_at DESC, jr.id DESC LIMIT 1`, userID)
}

func (r *joinRequestRepository) ListByOffice(ctx context.Context, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error) {
	where := []string{"jr.office_id = $1"}
	args := []interface{}{officeID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("jr.status = $%d", len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int32
	countQuery := `SELECT COUNT(*) FROM join_requests jr` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, mapError(err)
	}

	query := selectJoinRequest + cond + ` ORDER BY jr.created_at ASC, jr.id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	reqs := []domain.JoinRequest{}
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, 0, mapError(err)
	}
	return reqs, total, nil
}

func (r *joinRequestRepository) Decide(ctx context.Context, d domain.JoinRequestDecision) error {
	query := `UPDATE join_requests
	          SET status = $1, role = $2, decided_by = $3, decided_at = $4
	          WHERE id = $5 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, d.Status, d.Role, d.DecidedBy, d.DecidedAt, d.RequestID)
	if err != nil {
		logger.DatabaseResult("DecideJoinRequest", 0, err, "request_id", d.RequestID)
		return mapError(err)
	}
	err = affectedOr(res, repository.ErrConflict)
	logger.DatabaseResult("DecideJoinRequest", boolToRows(err == nil), nil,
		"request_id", d.RequestID, "status", d.Status)
	return err
}

func (r *joinRequestRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]domain.JoinRequest, error) {
	reqs := []domain.JoinRequest{}
	query := selectJoinRequest + ` WHERE jr.status = 'pending' AND jr.created_at < $1
	          ORDER BY jr.office_id, jr.created_at, jr.id`
	if err := r.db.SelectContext(ctx, &reqs, query, before); err != nil {
		return nil, mapError(err)
	}
	return reqs, nil
}
