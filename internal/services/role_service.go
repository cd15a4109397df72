package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"
	"crudefi_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Roles ---
var (
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")
	ErrRoleInUse    = errors.New("role is in use by an open shift")
	ErrInvalidRate  = errors.New("base_daily_rate must be a positive amount")
)

// --- Role DTOs ---
type CreateRoleRequest struct {
	RoleName      string          `json:"role_name" binding:"required,max=64"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
}

type UpdateRoleRequest struct {
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
}

// --- RoleService Interface ---
type RoleService interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (*models.Role, error)
	GetRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, name string) (*models.Role, error)
	UpdateRoleRate(ctx context.Context, name string, req UpdateRoleRequest) (*models.Role, error)
	DeleteRole(ctx context.Context, name string) error
}

type roleService struct {
	roleRepo repositories.RoleRepository
	db       *sql.DB
}

// NewRoleService creates a new instance of RoleService.
func NewRoleService(rr repositories.RoleRepository, db *sql.DB) RoleService {
	return &roleService{roleRepo: rr, db: db}
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	if !rate.Round(2).Equal(rate) {
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidRate)
	}
	return nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*models.Role, error) {
	name := strings.TrimSpace(req.RoleName)
	if name == "" {
		return nil, fmt.Errorf("%w: role_name cannot be empty", ErrValidation)
	}
	if err := validateRate(req.BaseDailyRate); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.CreateRole(ctx, s.db, &models.Role{RoleName: name, BaseDailyRate: req.BaseDailyRate})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %q", ErrRoleExists, name)
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

func (s *roleService) GetRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.GetRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) GetRole(ctx context.Context, name string) (*models.Role, error) {
	role, err := s.roleRepo.GetRoleByName(ctx, nil, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// UpdateRoleRate changes the rate for future shifts. Open and closed shifts keep their snapshot.
func (s *roleService) UpdateRoleRate(ctx context.Context, name string, req UpdateRoleRequest) (*models.Role, error) {
	if err := validateRate(req.BaseDailyRate); err != nil {
		return nil, err
	}
	role, err := s.roleRepo.UpdateRoleRate(ctx, s.db, &models.Role{RoleName: strings.TrimSpace(name), BaseDailyRate: req.BaseDailyRate})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	utils.LogInfo("Role rate updated", map[string]interface{}{"role": role.RoleName, "base_daily_rate": role.BaseDailyRate.String()})
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// FOR UPDATE waits for any OpenShift holding a share lock on this role.
	if _, err := s.roleRepo.LockRole(ctx, tx, name); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to lock role: %w", err)
	}

	open, err := s.roleRepo.CountOpenShiftsForRole(ctx, tx, name)
	if err != nil {
		return fmt.Errorf("failed to check role usage: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open shift(s)", ErrRoleInUse, open)
	}
	if err := s.roleRepo.DeleteRole(ctx, tx, name); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return tx.Commit()
}
