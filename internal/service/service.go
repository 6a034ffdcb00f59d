package service

import (
	"context"

	"lawdesk-backend/internal/domain"
)

// TokenPair is returned by every successful authentication.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, userID int32) (*domain.User, *TokenPair, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, name, phone string) (*domain.User, error)
}

type OfficeService interface {
	CreateOffice(ctx context.Context, userID int32, office *domain.Office) error
	GetOffice(ctx context.Context, id int32) (*domain.Office, error)
	ListOffices(ctx context.Context) ([]domain.Office, error)
	UpdateOffice(ctx context.Context, userID int32, office *domain.Office) error
	ListEmployees(ctx context.Context, userID, officeID int32) ([]domain.User, error)
	UpdateEmployeeRole(ctx context.Context, userID, officeID, employeeID int32, role domain.Role) (*domain.User, error)
	RemoveEmployee(ctx context.Context, userID, officeID, employeeID int32) error
}

type JoinRequestService interface {
	SubmitJoinRequest(ctx context.Context, userID, officeID int32) (*domain.JoinRequest, error)
	ListOfficeJoinRequests(ctx context.Context, userID, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error)
	UpdateJoinRequestStatus(ctx context.Context, userID, requestID int32, status domain.JoinRequestStatus, role *domain.Role) (*domain.JoinRequest, error)
	GetOwnJoinRequest(ctx context.Context, userID int32) (*domain.JoinRequest, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendJoinRequestReceived(ctx context.Context, ownerEmail, ownerName, requesterName, officeName string) error
	SendJoinRequestDecision(ctx context.Context, email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) error
	SendPendingDigest(ctx context.Context, ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) error
}
