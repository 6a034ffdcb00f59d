package postgres

import (
	"context"

	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/repository"
)

const userColumns = `id, name, email, phone, password_hash, role, office_id, created_at, updated_at`

type userRepository struct {
	db database.Handler
}

func NewUserRepository(db database.Handler) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, phone, password_hash, role)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, u, query, id); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	if err := r.db.GetContext(ctx, u, query, id); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	if err := r.db.GetContext(ctx, u, query, email); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = $1, phone = $2, updated_at = NOW() WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Phone, u.ID)
	if err != nil {
		return mapError(err)
	}
	return affectedOr(res, repository.ErrNotFound)
}

func (r *userRepository) AssignOffice(ctx context.Context, userID, officeID int32, role domain.Role) error {
	query := `UPDATE users SET office_id = $1, role = $2, updated_at = NOW()
	          WHERE id = $3 AND office_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, officeID, role, userID)
	if err != nil {
		logger.DatabaseResult("AssignOffice", 0, err, "user_id", userID)
		return mapError(err)
	}
	err = affectedOr(res, repository.ErrConflict)
	logger.DatabaseResult("AssignOffice", boolToRows(err == nil), nil, "user_id", userID, "office_id", officeID)
	return err
}

func (r *userRepository) UpdateOfficeRole(ctx context.Context, userID, officeID int32, role domain.Role) error {
	query := `UPDATE users SET role = $1, updated_at = NOW()
	          WHERE id = $2 AND office_id = $3 AND role <> 'owner'`
	res, err := r.db.ExecContext(ctx, query, role, userID, officeID)
	if err != nil {
		return mapError(err)
	}
	err = affectedOr(res, repository.ErrConflict)
	logger.DatabaseResult("UpdateOfficeRole", boolToRows(err == nil), nil, "user_id", userID, "office_id", officeID)
	return err
}

func (r *userRepository) RemoveFromOffice(ctx context.Context, userID, officeID int32) error {
	query := `UPDATE users SET office_id = NULL, role = 'none', updated_at = NOW()
	          WHERE id = $1 AND office_id = $2 AND role <> 'owner'`
	res, err := r.db.ExecContext(ctx, query, userID, officeID)
	if err != nil {
		return mapError(err)
	}
	err = affectedOr(res, repository.ErrConflict)
	logger.DatabaseResult("RemoveFromOffice", boolToRows(err == nil), nil, "user_id", userID, "office_id", officeID)
	return err
}

func (r *userRepository) ListByOffice(ctx context.Context, officeID int32) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE office_id = $1 ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &users, query, officeID); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *userRepository) CountByOffice(ctx context.Context, officeID int32) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM users WHERE office_id = $1`
	if err := r.db.GetContext(ctx, &count, query, officeID); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func boolToRows(ok bool) int64 {
	if ok {
		return 1
	}
	return 0
}
