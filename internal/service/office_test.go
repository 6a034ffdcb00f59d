package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/repository"
	"lawdesk-backend/internal/service"
)

func newOfficeService(m *mocks) service.OfficeService {
	return service.NewOfficeService(m, m.offices, m.users)
}

func TestOfficeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Creator becomes owner", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)

		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testRequester(), nil)
		m.joinRequests.On("GetPendingByUser", ctx, requesterID).Return(nil, repository.ErrNotFound)
		m.offices.On("Create", ctx, mock.MatchedBy(func(o *domain.Office) bool {
			return o.OwnerID == requesterID && o.Name == "Law & Co"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Office).ID = officeID
		}).Return(nil)
		m.users.On("AssignOffice", ctx, requesterID, officeID, domain.RoleOwner).Return(nil)

		office := &domain.Office{Name: "  Law & Co ", INN: "7701234567"}
		require.NoError(t, svc.CreateOffice(ctx, requesterID, office))
		assert.Equal(t, officeID, office.ID)
		assert.Equal(t, int32(1), office.EmployeeCount)
		m.users.AssertExpectations(t)
	})

	t.Run("Member cannot create", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.users.On("GetByIDForUpdate", ctx, ownerID).Return(testOwner(), nil)

		err := svc.CreateOffice(ctx, ownerID, &domain.Office{Name: "Second"})
		assert.ErrorIs(t, err, service.ErrAlreadyMember)
		m.offices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Pending request blocks creation", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testRequester(), nil)
		m.joinRequests.On("GetPendingByUser", ctx, requesterID).Return(pendingRequest(), nil)

		err := svc.CreateOffice(ctx, requesterID, &domain.Office{Name: "Mine"})
		assert.ErrorIs(t, err, service.ErrDuplicatePending)
	})

	t.Run("Name required", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)

		err := svc.CreateOffice(ctx, requesterID, &domain.Office{Name: "  "})
		assert.ErrorIs(t, err, service.ErrValidation)
		assert.Zero(t, m.txCount)
	})
}

func TestOfficeService_Get(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := newOfficeService(m)

	cached := testOffice()
	m.offices.On("GetByID", ctx, officeID).Return(cached, nil)
	m.offices.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound)
	m.users.On("CountByOffice", ctx, officeID).Return(int32(4), nil)

	office, err := svc.GetOffice(ctx, officeID)
	require.NoError(t, err)
	assert.Equal(t, int32(4), office.EmployeeCount)
	assert.Zero(t, cached.EmployeeCount, "repository record must not be mutated")

	_, err = svc.GetOffice(ctx, 99)
	assert.ErrorIs(t, err, service.ErrOfficeNotFound)
}

func TestOfficeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner updates", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.offices.On("Update", ctx, mock.MatchedBy(func(o *domain.Office) bool {
			return o.ID == officeID && o.Name == "Renamed" && o.OwnerID == ownerID
		})).Return(nil)

		err := svc.UpdateOffice(ctx, ownerID, &domain.Office{ID: officeID, Name: "Renamed"})
		assert.NoError(t, err)
	})

	t.Run("Non-owner forbidden", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)

		err := svc.UpdateOffice(ctx, requesterID, &domain.Office{ID: officeID, Name: "Mine now"})
		assert.ErrorIs(t, err, service.ErrForbidden)
		m.offices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestOfficeService_ListEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run("Member lists colleagues", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		staff := []domain.User{*testOwner()}
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByID", ctx, ownerID).Return(testOwner(), nil)
		m.users.On("ListByOffice", ctx, officeID).Return(staff, nil)

		got, err := svc.ListEmployees(ctx, ownerID, officeID)
		require.NoError(t, err)
		assert.Equal(t, staff, got)
	})

	t.Run("Outsider forbidden", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByID", ctx, requesterID).Return(testRequester(), nil)

		_, err := svc.ListEmployees(ctx, requesterID, officeID)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func testLawyer() *domain.User {
	return &domain.User{ID: requesterID, Name: "Alice", Email: "alice@x.com", Role: domain.RoleLawyer, OfficeID: int32Ptr(officeID)}
}

func TestOfficeService_UpdateEmployeeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner changes role", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testLawyer(), nil)
		m.users.On("UpdateOfficeRole", ctx, requesterID, officeID, domain.RoleExpert).Return(nil)
		m.notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == requesterID &&
				n.Attributes[domain.AttrKind] == domain.NotificationEmployeeRoleChanged &&
				n.Attributes[domain.AttrRole] == "expert"
		})).Return(nil)

		got, err := svc.UpdateEmployeeRole(ctx, ownerID, officeID, requesterID, domain.RoleExpert)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleExpert, got.Role)
		assert.Equal(t, 1, m.txCount)
		m.notifications.AssertExpectations(t)
	})

	t.Run("Same role is a no-op", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testLawyer(), nil)

		got, err := svc.UpdateEmployeeRole(ctx, ownerID, officeID, requesterID, domain.RoleLawyer)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleLawyer, got.Role)
		m.users.AssertNotCalled(t, "UpdateOfficeRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Owner role cannot be granted", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)

		_, err := svc.UpdateEmployeeRole(ctx, ownerID, officeID, requesterID, domain.RoleOwner)
		assert.ErrorIs(t, err, service.ErrValidation)
		assert.Zero(t, m.txCount)
	})

	t.Run("Owner cannot be demoted", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)

		_, err := svc.UpdateEmployeeRole(ctx, ownerID, officeID, ownerID, domain.RoleLawyer)
		assert.ErrorIs(t, err, service.ErrValidation)
		m.users.AssertNotCalled(t, "UpdateOfficeRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-owner forbidden", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)

		_, err := svc.UpdateEmployeeRole(ctx, requesterID, officeID, int32(8), domain.RoleAdmin)
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.Zero(t, m.txCount)
	})

	t.Run("Employee of another office", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		other := testLawyer()
		other.OfficeID = int32Ptr(7)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(other, nil)

		_, err := svc.UpdateEmployeeRole(ctx, ownerID, officeID, requesterID, domain.RoleAdmin)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("Office not found", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound)

		_, err := svc.UpdateEmployeeRole(ctx, ownerID, 99, requesterID, domain.RoleAdmin)
		assert.ErrorIs(t, err, service.ErrOfficeNotFound)
	})
}

func TestOfficeService_RemoveEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner removes employee", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testLawyer(), nil)
		m.users.On("RemoveFromOffice", ctx, requesterID, officeID).Return(nil)
		m.notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == requesterID && n.Attributes[domain.AttrKind] == domain.NotificationEmployeeRemoved
		})).Return(nil)

		require.NoError(t, svc.RemoveEmployee(ctx, ownerID, officeID, requesterID))
		assert.Equal(t, 1, m.txCount)
		m.users.AssertExpectations(t)
		m.notifications.AssertExpectations(t)
	})

	t.Run("Owner cannot be removed", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)

		err := svc.RemoveEmployee(ctx, ownerID, officeID, ownerID)
		assert.ErrorIs(t, err, service.ErrValidation)
		m.users.AssertNotCalled(t, "RemoveFromOffice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-owner forbidden", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)

		err := svc.RemoveEmployee(ctx, requesterID, officeID, int32(8))
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.Zero(t, m.txCount)
	})

	t.Run("Not a member", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testRequester(), nil)

		err := svc.RemoveEmployee(ctx, ownerID, officeID, requesterID)
		assert.ErrorIs(t, err, service.ErrNotFound)
		m.users.AssertNotCalled(t, "RemoveFromOffice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent removal", func(t *testing.T) {
		m := newMocks()
		svc := newOfficeService(m)
		m.offices.On("GetByID", ctx, officeID).Return(testOffice(), nil)
		m.users.On("GetByIDForUpdate", ctx, requesterID).Return(testLawyer(), nil)
		m.users.On("RemoveFromOffice", ctx, requesterID, officeID).Return(repository.ErrConflict)

		err := svc.RemoveEmployee(ctx, ownerID, officeID, requesterID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
