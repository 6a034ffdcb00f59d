package repository

import (
	"context"
	"errors"
	"time"

	"lawdesk-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is returned when a guarded update matched no row because
	// the record changed state concurrently.
	ErrConflict = errors.New("record state changed")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	// GetByIDForUpdate locks the user row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error

	// AssignOffice sets office and role for a user who has no office yet.
	// Returns ErrConflict when the user already belongs to an office.
	AssignOffice(ctx context.Context, userID, officeID int32, role domain.Role) error
	// UpdateOfficeRole changes the role of a non-owner member of officeID.
	// Returns ErrConflict when the user is not such a member.
	UpdateOfficeRole(ctx context.Context, userID, officeID int32, role domain.Role) error
	// RemoveFromOffice clears office and resets the role to none for a
	// non-owner member of officeID. Returns ErrConflict otherwise.
	RemoveFromOffice(ctx context.Context, userID, officeID int32) error
	ListByOffice(ctx context.Context, officeID int32) ([]domain.User, error)
	CountByOffice(ctx context.Context, officeID int32) (int32, error)
}

type OfficeRepository interface {
	Create(ctx context.Context, office *domain.Office) error
	GetByID(ctx context.Context, id int32) (*domain.Office, error)
	List(ctx context.Context) ([]domain.Office, error)
	Update(ctx context.Context, office *domain.Office) error
}

type JoinRequestRepository interface {
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error)
	// GetByIDForUpdate locks the request row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.JoinRequest, error)
	GetPendingByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error)
	// GetLatestByUser returns the most recent request with the office name joined.
	GetLatestByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error)
	ListByOffice(ctx context.Context, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error)
	// Decide moves a pending request to a terminal status.
	// Returns ErrConflict when the request is no longer pending.
	Decide(ctx context.Context, decision domain.JoinRequestDecision) error
	ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]domain.JoinRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

// Registry groups the repositories bound to one database handle.
type Registry struct {
	Users         UserRepository
	Offices       OfficeRepository
	JoinRequests  JoinRequestRepository
	Notifications NotificationRepository
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Transaction(ctx context.Context, fn func(repos *Registry) error) error
}
