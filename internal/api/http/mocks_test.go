package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, name, email, phone, password string) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, name, email, phone, password)
	return userArg(args, 0), tokensArg(args, 1), args.Error(2)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return userArg(args, 0), tokensArg(args, 1), args.Error(2)
}
func (m *mockAuthService) Refresh(ctx context.Context, userID int32) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), tokensArg(args, 1), args.Error(2)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), args.Error(1)
}
func (m *mockUserService) UpdateProfile(ctx context.Context, userID int32, name, phone string) (*domain.User, error) {
	args := m.Called(ctx, userID, name, phone)
	return userArg(args, 0), args.Error(1)
}

type mockOfficeService struct{ mock.Mock }

func (m *mockOfficeService) CreateOffice(ctx context.Context, userID int32, office *domain.Office) error {
	return m.Called(ctx, userID, office).Error(0)
}
func (m *mockOfficeService) GetOffice(ctx context.Context, id int32) (*domain.Office, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Office), args.Error(1)
}
func (m *mockOfficeService) ListOffices(ctx context.Context) ([]domain.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Office), args.Error(1)
}
func (m *mockOfficeService) UpdateOffice(ctx context.Context, userID int32, office *domain.Office) error {
	return m.Called(ctx, userID, office).Error(0)
}
func (m *mockOfficeService) ListEmployees(ctx context.Context, userID, officeID int32) ([]domain.User, error) {
	args := m.Called(ctx, userID, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockOfficeService) UpdateEmployeeRole(ctx context.Context, userID, officeID, employeeID int32, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, userID, officeID, employeeID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *mockOfficeService) RemoveEmployee(ctx context.Context, userID, officeID, employeeID int32) error {
	return m.Called(ctx, userID, officeID, employeeID).Error(0)
}

type mockJoinRequestService struct{ mock.Mock }

func (m *mockJoinRequestService) SubmitJoinRequest(ctx context.Context, userID, officeID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID, officeID)
	return joinArg(args, 0), args.Error(1)
}
func (m *mockJoinRequestService) ListOfficeJoinRequests(ctx context.Context, userID, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error) {
	args := m.Called(ctx, userID, officeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JoinRequest), args.Get(1).(int32), args.Error(2)
}
func (m *mockJoinRequestService) UpdateJoinRequestStatus(ctx context.Context, userID, requestID int32, status domain.JoinRequestStatus, role *domain.Role) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID, requestID, status, role)
	return joinArg(args, 0), args.Error(1)
}
func (m *mockJoinRequestService) GetOwnJoinRequest(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	return joinArg(args, 0), args.Error(1)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *mockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func userArg(args mock.Arguments, i int) *domain.User {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.User)
}

func tokensArg(args mock.Arguments, i int) *service.TokenPair {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*service.TokenPair)
}

func joinArg(args mock.Arguments, i int) *domain.JoinRequest {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.JoinRequest)
}
