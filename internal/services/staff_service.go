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
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrNationalIDExists    = errors.New("national ID is already registered to another staff member")
	ErrStaffInUse          = errors.New("staff member cannot be deleted as they are referenced by shifts or salary records")
	ErrStaffDataValidation = errors.New("staff data validation error")
	ErrValidation          = errors.New("validation error")
)

// --- Staff DTOs ---
type CreateStaffRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	NationalID  string  `json:"national_id" binding:"required,nationalid"`
	PhoneNumber *string `json:"phone_number"`
}

type UpdateStaffRequest struct {
	FullName    *string `json:"full_name"`
	NationalID  *string `json:"national_id" binding:"omitempty,nationalid"`
	PhoneNumber *string `json:"phone_number"`
}

// --- StaffService Interface ---
type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.Staff, error)
	GetStaffByID(ctx context.Context, staffID int64) (*models.Staff, error)
	GetStaff(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.Staff, int, error)
	UpdateStaff(ctx context.Context, staffID int64, req UpdateStaffRequest) (*models.Staff, error)
	DeleteStaff(ctx context.Context, staffID int64) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(sr repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: sr, db: db}
}

func validateStaffFields(fullName, nationalID string) error {
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full_name cannot be empty", ErrStaffDataValidation)
	}
	if !utils.IsValidNationalID(nationalID) {
		return fmt.Errorf("%w: national_id must be 6-20 letters or digits", ErrStaffDataValidation)
	}
	return nil
}

func (s *staffService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.Staff, error) {
	staff := &models.Staff{
		FullName:    strings.TrimSpace(req.FullName),
		NationalID:  strings.TrimSpace(req.NationalID),
		PhoneNumber: utils.TrimPtr(req.PhoneNumber),
	}
	if err := validateStaffFields(staff.FullName, staff.NationalID); err != nil {
		return nil, err
	}

	created, err := s.staffRepo.CreateStaff(ctx, s.db, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrNationalIDExists, staff.NationalID)
		}
		return nil, fmt.Errorf("failed to create staff member in repository: %w", err)
	}
	return created, nil
}

func (s *staffService) GetStaffByID(ctx context.Context, staffID int64) (*models.Staff, error) {
	staff, err := s.staffRepo.GetStaffByID(ctx, nil, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member by ID: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaff(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.Staff, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	staffList, totalCount, err := s.staffRepo.GetStaff(ctx, page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get staff members: %w", err)
	}
	return staffList, totalCount, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, staffID int64, req UpdateStaffRequest) (*models.Staff, error) {
	staff, err := s.staffRepo.GetStaffByID(ctx, nil, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member for update: %w", err)
	}

	if req.FullName != nil {
		staff.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.NationalID != nil {
		staff.NationalID = strings.TrimSpace(*req.NationalID)
	}
	if req.PhoneNumber != nil {
		staff.PhoneNumber = utils.TrimPtr(req.PhoneNumber)
	}
	if err := validateStaffFields(staff.FullName, staff.NationalID); err != nil {
		return nil, err
	}

	updated, err := s.staffRepo.UpdateStaff(ctx, s.db, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrNationalIDExists, staff.NationalID)
		}
		return nil, fmt.Errorf("failed to update staff member in repository: %w", err)
	}
	return updated, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, staffID int64) error {
	err := s.staffRepo.DeleteStaff(ctx, s.db, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return ErrStaffInUse
		}
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}
