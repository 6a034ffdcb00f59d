package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/metrics"
	"lawdesk-backend/internal/repository"
)

// JoinRequestOptions tunes the membership workflow.
type JoinRequestOptions struct {
	// DefaultRole is granted when an approval names no role.
	DefaultRole domain.Role
	// DefaultPageSize applies when a listing sets no limit.
	DefaultPageSize int
	// MaxPageSize caps the listing limit.
	MaxPageSize int
}

func (o *JoinRequestOptions) setDefaults() {
	if !o.DefaultRole.Assignable() {
		o.DefaultRole = domain.RoleLawyer
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = maxPageSize
	}
	if o.DefaultPageSize <= 0 || o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = min(50, o.MaxPageSize)
	}
}

type joinRequestService struct {
	tx         repository.Transactor
	reqRepo    repository.JoinRequestRepository
	officeRepo repository.OfficeRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
	opts       JoinRequestOptions
	now        func() time.Time
}

func NewJoinRequestService(
	tx repository.Transactor,
	reqRepo repository.JoinRequestRepository,
	officeRepo repository.OfficeRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	opts JoinRequestOptions,
) JoinRequestService {
	opts.setDefaults()
	return &joinRequestService{
		tx:         tx,
		reqRepo:    reqRepo,
		officeRepo: officeRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		opts:       opts,
		now:        time.Now,
	}
}

// SubmitJoinRequest records a pending request from a user without an office.
// The user's membership is not touched until an owner approves.
func (s *joinRequestService) SubmitJoinRequest(ctx context.Context, userID, officeID int32) (*domain.JoinRequest, error) {
	logger.EnterMethod("joinRequestService.SubmitJoinRequest", "user_id", userID, "office_id", officeID)

	if officeID <= 0 {
		return nil, invalidf("officeId is required")
	}

	var (
		req    *domain.JoinRequest
		office *domain.Office
		owner  *domain.User
		user   *domain.User
	)
	err := s.tx.Transaction(ctx, func(repos *repository.Registry) error {
		var err error
		office, err = repos.Offices.GetByID(ctx, officeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOfficeNotFound
			}
			return fmt.Errorf("failed to get office: %w", err)
		}

		// Serializes with CreateOffice for the same user.
		user, err = repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user.HasOffice() {
			return ErrAlreadyMember
		}

		if _, err := repos.JoinRequests.GetPendingByUser(ctx, userID); err == nil {
			return ErrDuplicatePending
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check pending join request: %w", err)
		}

		req = &domain.JoinRequest{
			UserID:     userID,
			OfficeID:   officeID,
			UserName:   user.Name,
			UserEmail:  user.Email,
			OfficeName: office.Name,
		}
		if err := repos.JoinRequests.Create(ctx, req); err != nil {
			// A concurrent submit won the partial unique index.
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicatePending
			}
			return fmt.Errorf("failed to create join request: %w", err)
		}

		owner, err = repos.Users.GetByID(ctx, office.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to get office owner: %w", err)
		}

		return repos.Notifications.Create(ctx, &domain.Notification{
			UserID:  owner.ID,
			Title:   "New join request",
			Message: fmt.Sprintf("%s asked to join %s.", user.Name, office.Name),
			Attributes: domain.Attributes{
				domain.AttrKind:          domain.NotificationJoinRequestReceived,
				domain.AttrJoinRequestID: strconv.Itoa(int(req.ID)),
				domain.AttrOfficeID:      strconv.Itoa(int(officeID)),
			},
		})
	})
	if err != nil {
		logger.ExitMethodWithError("joinRequestService.SubmitJoinRequest", err, "user_id", userID)
		return nil, err
	}

	metrics.JoinRequestsSubmitted.Inc()
	logger.Info("Join request submitted", "request_id", req.ID, "user_id", userID, "office_id", officeID)

	if err := s.emailSvc.SendJoinRequestReceived(ctx, owner.Email, owner.Name, user.Name, office.Name); err != nil {
		logger.Warn("Failed to send join request email", "request_id", req.ID, "error", err)
	}

	logger.ExitMethod("joinRequestService.SubmitJoinRequest", "request_id", req.ID)
	return req, nil
}

// ListOfficeJoinRequests returns the office's requests ordered by creation time.
// Only the office owner may list them.
func (s *joinRequestService) ListOfficeJoinRequests(ctx context.Context, userID, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, invalidf("unknown status %q", *filter.Status)
	}
	if filter.Offset < 0 {
		return nil, 0, invalidf("offset must not be negative")
	}
	if filter.Limit <= 0 {
		filter.Limit = s.opts.DefaultPageSize
	}
	if filter.Limit > s.opts.MaxPageSize {
		filter.Limit = s.opts.MaxPageSize
	}

	office, err := s.officeRepo.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrOfficeNotFound
		}
		return nil, 0, fmt.Errorf("failed to get office: %w", err)
	}
	if !office.IsOwnedBy(userID) {
		return nil, 0, ErrForbidden
	}

	reqs, total, err := s.reqRepo.ListByOffice(ctx, officeID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list join requests: %w", err)
	}
	return reqs, total, nil
}

// UpdateJoinRequestStatus applies an owner's decision. The request row is
// locked, and on approval the requester's office and role are written in
// the same transaction.
func (s *joinRequestService) UpdateJoinRequestStatus(ctx context.Context, userID, requestID int32, status domain.JoinRequestStatus, role *domain.Role) (*domain.JoinRequest, error) {
	logger.EnterMethod("joinRequestService.UpdateJoinRequestStatus", "user_id", userID, "request_id", requestID, "status", status)

	if !status.IsDecision() {
		return nil, invalidf("status must be %q or %q", domain.JoinRequestStatusApproved, domain.JoinRequestStatusRejected)
	}

	var granted *domain.Role
	if status == domain.JoinRequestStatusApproved {
		r := s.opts.DefaultRole
		if role != nil && *role != "" {
			if !role.Assignable() {
				return nil, invalidf("role %q cannot be assigned", *role)
			}
			r = *role
		}
		granted = &r
	}

	var (
		req       *domain.JoinRequest
		requester *domain.User
	)
	err := s.tx.Transaction(ctx, func(repos *repository.Registry) error {
		var err error
		req, err = repos.JoinRequests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get join request: %w", err)
		}

		office, err := repos.Offices.GetByID(ctx, req.OfficeID)
		if err != nil {
			return fmt.Errorf("failed to get office: %w", err)
		}
		if !office.IsOwnedBy(userID) {
			return ErrForbidden
		}

		if !req.IsPending() {
			return ErrInvalidTransition
		}

		decision := domain.JoinRequestDecision{
			RequestID: req.ID,
			Status:    status,
			Role:      granted,
			DecidedBy: userID,
			DecidedAt: s.now().UTC(),
		}
		if err := repos.JoinRequests.Decide(ctx, decision); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("failed to update join request: %w", err)
		}

		if status == domain.JoinRequestStatusApproved {
			if err := repos.Users.AssignOffice(ctx, req.UserID, req.OfficeID, *granted); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return ErrAlreadyMember
				}
				return fmt.Errorf("failed to assign office: %w", err)
			}
		}

		requester, err = repos.Users.GetByID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get requester: %w", err)
		}

		if err := repos.Notifications.Create(ctx, decisionNotification(req, status, granted)); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		req.Status = decision.Status
		req.Role = decision.Role
		req.DecidedBy = &decision.DecidedBy
		req.DecidedAt = &decision.DecidedAt
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			metrics.JoinRequestConflicts.Inc()
		}
		logger.ExitMethodWithError("joinRequestService.UpdateJoinRequestStatus", err, "request_id", requestID)
		return nil, err
	}

	metrics.JoinRequestDecisions.WithLabelValues(string(status)).Inc()
	logger.Info("Join request decided", "request_id", req.ID, "status", status, "decided_by", userID)

	if err := s.emailSvc.SendJoinRequestDecision(ctx, requester.Email, requester.Name, req.OfficeName, status, granted); err != nil {
		logger.Warn("Failed to send join request decision email", "request_id", req.ID, "error", err)
	}

	logger.ExitMethod("joinRequestService.UpdateJoinRequestStatus", "request_id", req.ID)
	return req, nil
}

func decisionNotification(req *domain.JoinRequest, status domain.JoinRequestStatus, role *domain.Role) *domain.Notification {
	n := &domain.Notification{
		UserID: req.UserID,
		Attributes: domain.Attributes{
			domain.AttrKind:          domain.NotificationJoinRequestDecided,
			domain.AttrJoinRequestID: strconv.Itoa(int(req.ID)),
			domain.AttrOfficeID:      strconv.Itoa(int(req.OfficeID)),
			domain.AttrStatus:        string(status),
		},
	}
	if status == domain.JoinRequestStatusApproved {
		n.Title = "Join request approved"
		n.Message = fmt.Sprintf("You joined %s as %s.", req.OfficeName, *role)
	} else {
		n.Title = "Join request rejected"
		n.Message = fmt.Sprintf("Your request to join %s was rejected.", req.OfficeName)
	}
	return n
}

// GetOwnJoinRequest returns the caller's most recent request with the office name.
func (s *joinRequestService) GetOwnJoinRequest(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	req, err := s.reqRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return req, nil
}
