package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/repository"
)

type officeService struct {
	tx         repository.Transactor
	officeRepo repository.OfficeRepository
	userRepo   repository.UserRepository
}

func NewOfficeService(
	tx repository.Transactor,
	officeRepo repository.OfficeRepository,
	userRepo repository.UserRepository,
) OfficeService {
	return &officeService{
		tx:         tx,
		officeRepo: officeRepo,
		userRepo:   userRepo,
	}
}

func normalizeOffice(o *domain.Office) error {
	o.Name = strings.TrimSpace(o.Name)
	o.Address = strings.TrimSpace(o.Address)
	o.INN = strings.TrimSpace(o.INN)
	o.OGRN = strings.TrimSpace(o.OGRN)
	o.ContactPhone = strings.TrimSpace(o.ContactPhone)
	o.WorkPhone2 = strings.TrimSpace(o.WorkPhone2)
	o.Website = strings.TrimSpace(o.Website)
	if o.Name == "" {
		return invalidf("office name is required")
	}
	return nil
}

// CreateOffice registers a new office owned by the caller. The caller joins
// it as owner in the same transaction.
func (s *officeService) CreateOffice(ctx context.Context, userID int32, office *domain.Office) error {
	logger.EnterMethod("officeService.CreateOffice", "user_id", userID)

	if err := normalizeOffice(office); err != nil {
		return err
	}

	err := s.tx.Transaction(ctx, func(repos *repository.Registry) error {
		// Serializes with SubmitJoinRequest for the same user.
		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
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

		office.OwnerID = userID
		if err := repos.Offices.Create(ctx, office); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to create office: %w", err)
		}

		if err := repos.Users.AssignOffice(ctx, userID, office.ID, domain.RoleOwner); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to assign owner: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("officeService.CreateOffice", err, "user_id", userID)
		return err
	}

	office.EmployeeCount = 1
	logger.Info("Office created", "office_id", office.ID, "owner_id", userID)
	logger.ExitMethod("officeService.CreateOffice", "office_id", office.ID)
	return nil
}

func (s *officeService) getOffice(ctx context.Context, id int32) (*domain.Office, error) {
	office, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to get office: %w", err)
	}
	return office, nil
}

func (s *officeService) GetOffice(ctx context.Context, id int32) (*domain.Office, error) {
	office, err := s.getOffice(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.userRepo.CountByOffice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	// Copy so callers never mutate a cached record.
	out := *office
	out.EmployeeCount = count
	return &out, nil
}

func (s *officeService) ListOffices(ctx context.Context) ([]domain.Office, error) {
	offices, err := s.officeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	return offices, nil
}

// UpdateOffice overwrites the editable fields of an office. Only the owner may update.
func (s *officeService) UpdateOffice(ctx context.Context, userID int32, office *domain.Office) error {
	if err := normalizeOffice(office); err != nil {
		return err
	}

	existing, err := s.getOffice(ctx, office.ID)
	if err != nil {
		return err
	}
	if !existing.IsOwnedBy(userID) {
		return ErrForbidden
	}

	office.OwnerID = existing.OwnerID
	office.CreatedAt = existing.CreatedAt
	if err := s.officeRepo.Update(ctx, office); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOfficeNotFound
		}
		return fmt.Errorf("failed to update office: %w", err)
	}

	logger.Info("Office updated", "office_id", office.ID, "user_id", userID)
	return nil
}

// ListEmployees returns the office members. Only members may list them.
func (s *officeService) ListEmployees(ctx context.Context, userID, officeID int32) ([]domain.User, error) {
	if _, err := s.getOffice(ctx, officeID); err != nil {
		return nil, err
	}

	caller, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !caller.BelongsTo(officeID) {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.ListByOffice(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// UpdateEmployeeRole changes the role of an office member. Only the owner may
// do this, and the owner's own role is fixed.
func (s *officeService) UpdateEmployeeRole(ctx context.Context, userID, officeID, employeeID int32, role domain.Role) (*domain.User, error) {
	logger.EnterMethod("officeService.UpdateEmployeeRole", "user_id", userID, "office_id", officeID, "employee_id", employeeID)

	if !role.Assignable() {
		return nil, invalidf("role %q cannot be assigned", role)
	}

	office, err := s.ownedOffice(ctx, userID, officeID)
	if err != nil {
		return nil, err
	}

	var employee *domain.User
	err = s.tx.Transaction(ctx, func(repos *repository.Registry) error {
		var err error
		employee, err = lockEmployee(ctx, repos, office, employeeID)
		if err != nil {
			return err
		}
		if employee.Role == role {
			return nil
		}

		if err := repos.Users.UpdateOfficeRole(ctx, employeeID, officeID, role); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to update employee role: %w", err)
		}
		employee.Role = role

		return repos.Notifications.Create(ctx, &domain.Notification{
			UserID:  employeeID,
			Title:   "Role changed",
			Message: fmt.Sprintf("Your role in %s is now %s.", office.Name, role),
			Attributes: domain.Attributes{
				domain.AttrKind:     domain.NotificationEmployeeRoleChanged,
				domain.AttrOfficeID: strconv.Itoa(int(officeID)),
				domain.AttrRole:     string(role),
			},
		})
	})
	if err != nil {
		logger.ExitMethodWithError("officeService.UpdateEmployeeRole", err, "employee_id", employeeID)
		return nil, err
	}

	logger.Info("Employee role changed", "office_id", officeID, "employee_id", employeeID, "role", role)
	logger.ExitMethod("officeService.UpdateEmployeeRole", "employee_id", employeeID)
	return employee, nil
}

// RemoveEmployee detaches a member from the office and resets their role to
// none, so they may submit a new join request. The owner cannot be removed.
func (s *officeService) RemoveEmployee(ctx context.Context, userID, officeID, employeeID int32) error {
	logger.EnterMethod("officeService.RemoveEmployee", "user_id", userID, "office_id", officeID, "employee_id", employeeID)

	office, err := s.ownedOffice(ctx, userID, officeID)
	if err != nil {
		return err
	}

	err = s.tx.Transaction(ctx, func(repos *repository.Registry) error {
		if _, err := lockEmployee(ctx, repos, office, employeeID); err != nil {
			return err
		}

		if err := repos.Users.RemoveFromOffice(ctx, employeeID, officeID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to remove employee: %w", err)
		}

		return repos.Notifications.Create(ctx, &domain.Notification{
			UserID:  employeeID,
			Title:   "Removed from office",
			Message: fmt.Sprintf("You are no longer a member of %s.", office.Name),
			Attributes: domain.Attributes{
				domain.AttrKind:     domain.NotificationEmployeeRemoved,
				domain.AttrOfficeID: strconv.Itoa(int(officeID)),
			},
		})
	})
	if err != nil {
		logger.ExitMethodWithError("officeService.RemoveEmployee", err, "employee_id", employeeID)
		return err
	}

	logger.Info("Employee removed", "office_id", officeID, "employee_id", employeeID)
	logger.ExitMethod("officeService.RemoveEmployee", "employee_id", employeeID)
	return nil
}

// ownedOffice loads the office and checks that userID owns it.
func (s *officeService) ownedOffice(ctx context.Context, userID, officeID int32) (*domain.Office, error) {
	office, err := s.getOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}
	if !office.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	return office, nil
}

// lockEmployee locks a member row of office. The owner is never a valid target.
func lockEmployee(ctx context.Context, repos *repository.Registry, office *domain.Office, employeeID int32) (*domain.User, error) {
	if office.IsOwnedBy(employeeID) {
		return nil, invalidf("the office owner cannot be changed or removed")
	}
	employee, err := repos.Users.GetByIDForUpdate(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if !employee.BelongsTo(office.ID) {
		return nil, ErrNotFound
	}
	return employee, nil
}
