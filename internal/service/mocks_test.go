package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) AssignOffice(ctx context.Context, userID, officeID int32, role domain.Role) error {
	args := m.Called(ctx, userID, officeID, role)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateOfficeRole(ctx context.Context, userID, officeID int32, role domain.Role) error {
	args := m.Called(ctx, userID, officeID, role)
	return args.Error(0)
}
func (m *MockUserRepo) RemoveFromOffice(ctx context.Context, userID, officeID int32) error {
	args := m.Called(ctx, userID, officeID)
	return args.Error(0)
}
func (m *MockUserRepo) ListByOffice(ctx context.Context, officeID int32) ([]domain.User, error) {
	args := m.Called(ctx, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) CountByOffice(ctx context.Context, officeID int32) (int32, error) {
	args := m.Called(ctx, officeID)
	return args.Get(0).(int32), args.Error(1)
}

// MockOfficeRepo
type MockOfficeRepo struct {
	mock.Mock
}

func (m *MockOfficeRepo) Create(ctx context.Context, office *domain.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}
func (m *MockOfficeRepo) GetByID(ctx context.Context, id int32) (*domain.Office, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Office), args.Error(1)
}
func (m *MockOfficeRepo) List(ctx context.Context) ([]domain.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Office), args.Error(1)
}
func (m *MockOfficeRepo) Update(ctx context.Context, office *domain.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) GetPendingByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) GetLatestByUser(ctx context.Context, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListByOffice(ctx context.Context, officeID int32, filter domain.JoinRequestFilter) ([]domain.JoinRequest, int32, error) {
	args := m.Called(ctx, officeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JoinRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockJoinRequestRepo) Decide(ctx context.Context, decision domain.JoinRequestDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendJoinRequestReceived(ctx context.Context, ownerEmail, ownerName, requesterName, officeName string) error {
	args := m.Called(ctx, ownerEmail, ownerName, requesterName, officeName)
	return args.Error(0)
}
func (m *MockEmailService) SendJoinRequestDecision(ctx context.Context, email, name, officeName string, status domain.JoinRequestStatus, role *domain.Role) error {
	args := m.Called(ctx, email, name, officeName, status, role)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingDigest(ctx context.Context, ownerEmail, ownerName, officeName string, requests []domain.JoinRequest) error {
	args := m.Called(ctx, ownerEmail, ownerName, officeName, requests)
	return args.Error(0)
}

// mocks bundles one set of repository mocks and a transactor that hands the
// same mocks to every transaction.
type mocks struct {
	users         *MockUserRepo
	offices       *MockOfficeRepo
	joinRequests  *MockJoinRequestRepo
	notifications *MockNotificationRepo
	email         *MockEmailService
	txCount       int
}

func newMocks() *mocks {
	return &mocks{
		users:         new(MockUserRepo),
		offices:       new(MockOfficeRepo),
		joinRequests:  new(MockJoinRequestRepo),
		notifications: new(MockNotificationRepo),
		email:         new(MockEmailService),
	}
}

func (m *mocks) Transaction(ctx context.Context, fn func(repos *repository.Registry) error) error {
	m.txCount++
	return fn(&repository.Registry{
		Users:         m.users,
		Offices:       m.offices,
		JoinRequests:  m.joinRequests,
		Notifications: m.notifications,
	})
}

func int32Ptr(v int32) *int32 { return &v }

func rolePtr(r domain.Role) *domain.Role { return &r }
