package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"
	"crudefi_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Shifts ---
var (
	ErrShiftNotFound           = errors.New("shift not found")
	ErrShiftNotOpen            = errors.New("shift is not open")
	ErrShiftAlreadyOpen        = errors.New("staff member already has an open shift")
	ErrDeductionReasonRequired = errors.New("deduction reason is required when closing a shift early")
	ErrSalaryRecordExists      = errors.New("salary record already exists for this shift")
	ErrShiftTimeFormat         = errors.New("invalid time format, use RFC3339 (e.g. 2026-10-17T09:00:00Z)")
	ErrShiftValidation         = errors.New("shift validation error")
	ErrActorNotFound           = errors.New("authenticated user no longer exists")
)

// --- Shift DTOs ---
type OpenShiftRequest struct {
	StaffID   int64   `json:"staff_id" binding:"required,gt=0"`
	ManagerID *int64  `json:"manager_id"`
	Role      string  `json:"role" binding:"required"`
	LoginTime *string `json:"login_time"`
}

type CloseShiftRequest struct {
	ManagerID       *int64  `json:"manager_id"`
	LogoutTime      *string `json:"logout_time"`
	DeductionReason *string `json:"deduction_reason"`
}

// CloseShiftResult carries the closed shift and, unless it was a short shift, its salary record.
type CloseShiftResult struct {
	Shift        *models.Shift        `json:"shift"`
	SalaryRecord *models.SalaryRecord `json:"salary_record,omitempty"`
	ActualHours  decimal.Decimal      `json:"actual_hours"`
	HourlyRate   decimal.Decimal      `json:"hourly_rate"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
}

// --- ShiftService Interface ---
type ShiftService interface {
	OpenShift(ctx context.Context, actorID int64, req OpenShiftRequest) (*models.Shift, error)
	CloseShift(ctx context.Context, actorID int64, shiftID int64, req CloseShiftRequest) (*CloseShiftResult, error)
	GetShiftByID(ctx context.Context, shiftID int64) (*models.Shift, error)
	GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, int, error)
	GetShiftStats(ctx context.Context) (*models.ShiftStats, error)
}

type shiftService struct {
	shiftRepo  repositories.ShiftRepository
	staffRepo  repositories.StaffRepository
	roleRepo   repositories.RoleRepository
	salaryRepo repositories.SalaryRepository
	db         *sql.DB
	loc        *time.Location
	now        func() time.Time
}

// NewShiftService creates a new instance of ShiftService.
// loc is the business timezone used for the shift date.
func NewShiftService(
	shr repositories.ShiftRepository,
	str repositories.StaffRepository,
	rr repositories.RoleRepository,
	sr repositories.SalaryRepository,
	db *sql.DB,
	loc *time.Location,
) ShiftService {
	if loc == nil {
		loc = time.UTC
	}
	return &shiftService{
		shiftRepo:  shr,
		staffRepo:  str,
		roleRepo:   rr,
		salaryRepo: sr,
		db:         db,
		loc:        loc,
		now:        time.Now,
	}
}

func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	// Clients sometimes send wall-clock time without an offset.
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc)
	if err != nil {
		return time.Time{}, ErrShiftTimeFormat
	}
	return t, nil
}

// optionalTime parses value or falls back to now.
func (s *shiftService) optionalTime(value *string) (time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return s.now(), nil
	}
	return parseDateTime(*value, s.loc)
}

func (s *shiftService) OpenShift(ctx context.Context, actorID int64, req OpenShiftRequest) (*models.Shift, error) {
	role := strings.TrimSpace(req.Role)
	if req.StaffID <= 0 || role == "" {
		return nil, fmt.Errorf("%w: staff_id and role are required", ErrValidation)
	}
	loginTime, err := s.optionalTime(req.LoginTime)
	if err != nil {
		return nil, fmt.Errorf("login_time: %w", err)
	}
	if loginTime.After(s.now().Add(time.Minute)) {
		return nil, fmt.Errorf("%w: login_time cannot be in the future", ErrShiftValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.staffRepo.GetStaffByID(ctx, tx, req.StaffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrStaffNotFound, req.StaffID)
		}
		return nil, fmt.Errorf("failed to validate staff member for shift: %w", err)
	}

	// The share lock keeps DeleteRole from removing the role before this shift commits.
	roleRow, err := s.roleRepo.ShareLockRole(ctx, tx, role)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, role)
		}
		return nil, fmt.Errorf("failed to fetch role rate: %w", err)
	}

	// The partial unique index is the real guard; this gives a clean error in the common case.
	if _, err := s.shiftRepo.GetOpenShiftByStaff(ctx, tx, req.StaffID); err == nil {
		return nil, fmt.Errorf("%w: staff ID %d", ErrShiftAlreadyOpen, req.StaffID)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check open shifts: %w", err)
	}

	shift := &models.Shift{
		StaffID:   req.StaffID,
		Date:      s.now().In(s.loc).Format("2006-01-02"),
		LoginTime: loginTime,
		Role:      roleRow.RoleName,
		RoleRate:  roleRow.BaseDailyRate,
		CreatedBy: &actorID,
	}
	created, err := s.shiftRepo.CreateShift(ctx, tx, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrShiftAlreadyOpen, req.StaffID)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrStaffNotFound, req.StaffID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: user ID %d", ErrActorNotFound, actorID)
		}
		return nil, fmt.Errorf("failed to create shift in repository: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit open shift transaction: %w", err)
	}

	utils.LogInfo("Shift opened", map[string]interface{}{
		"shift_id": created.ShiftID, "staff_id": created.StaffID, "role": created.Role,
		"role_rate": created.RoleRate.String(), "opened_by": actorID,
	})
	return created, nil
}

func (s *shiftService) CloseShift(ctx context.Context, actorID int64, shiftID int64, req CloseShiftRequest) (*CloseShiftResult, error) {
	var requestedLogout *time.Time
	if req.LogoutTime != nil && strings.TrimSpace(*req.LogoutTime) != "" {
		t, err := parseDateTime(*req.LogoutTime, s.loc)
		if err != nil {
			return nil, fmt.Errorf("logout_time: %w", err)
		}
		requestedLogout = &t
	}
	reason := utils.TrimPtr(req.DeductionReason)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	shift, err := s.shiftRepo.LockShift(ctx, tx, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrShiftNotFound, shiftID)
		}
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}
	if !shift.IsOpen() {
		return nil, fmt.Errorf("%w: ID %d is %s", ErrShiftNotOpen, shiftID, shift.ShiftStatus)
	}

	logoutTime := s.now()
	if requestedLogout != nil {
		logoutTime = *requestedLogout
	}
	if logoutTime.Before(shift.LoginTime) {
		return nil, fmt.Errorf("%w: logout_time is before login_time", ErrShiftValidation)
	}

	worked := ComputeWorkedHours(shift.LoginTime, logoutTime)
	if worked.ShortShift {
		forced := ShortShiftReason
		reason = &forced
	} else if worked.NeedsReason() && reason == nil {
		return nil, fmt.Errorf("%w: %s hours worked", ErrDeductionReasonRequired, worked.Actual.String())
	}

	shift.LogoutTime = &logoutTime
	shift.ActualHours = decimal.NewNullDecimal(worked.Actual)
	shift.DeductionReason = reason
	shift.ClosedBy = &actorID

	closed, err := s.shiftRepo.CloseShift(ctx, tx, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrShiftNotOpen, shiftID)
		}
		return nil, fmt.Errorf("failed to close shift in repository: %w", err)
	}

	result := &CloseShiftResult{
		Shift:       closed,
		ActualHours: worked.Actual,
		HourlyRate:  decimal.Zero,
		TotalAmount: decimal.Zero,
	}

	if !worked.ShortShift {
		exists, err := s.salaryRepo.ExistsForShift(ctx, tx, shiftID)
		if err != nil {
			return nil, fmt.Errorf("failed to check salary record: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: shift ID %d", ErrSalaryRecordExists, shiftID)
		}

		pay := ComputeShiftPay(shift.RoleRate, worked.Actual)
		record, err := s.salaryRepo.CreateSalaryRecord(ctx, tx, &models.SalaryRecord{
			ShiftID:         shiftID,
			StaffID:         shift.StaffID,
			TotalHours:      worked.Actual,
			HourlyRate:      pay.HourlyRate,
			TotalAmount:     pay.TotalAmount,
			DeductionReason: reason,
		})
		if err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, fmt.Errorf("%w: shift ID %d", ErrSalaryRecordExists, shiftID)
			}
			return nil, fmt.Errorf("failed to create salary record: %w", err)
		}
		result.SalaryRecord = record
		result.HourlyRate = pay.HourlyRate
		result.TotalAmount = pay.TotalAmount
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit close shift transaction: %w", err)
	}

	utils.LogInfo("Shift closed", map[string]interface{}{
		"shift_id": shiftID, "staff_id": shift.StaffID, "actual_hours": worked.Actual.String(),
		"total_amount": result.TotalAmount.String(), "short_shift": worked.ShortShift, "closed_by": actorID,
	})
	return result, nil
}

func (s *shiftService) GetShiftByID(ctx context.Context, shiftID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(ctx, nil, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, int, error) {
	filters.Date = strings.TrimSpace(filters.Date)
	filters.Status = strings.TrimSpace(filters.Status)
	filters.Role = strings.TrimSpace(filters.Role)
	filters.StaffName = strings.TrimSpace(filters.StaffName)

	if filters.Date != "" {
		if _, err := time.Parse("2006-01-02", filters.Date); err != nil {
			return nil, 0, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
	}
	if filters.Status != "" && filters.Status != models.ShiftStatusOpen && filters.Status != models.ShiftStatusClosed {
		return nil, 0, fmt.Errorf("%w: status must be Open or Closed", ErrValidation)
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	shifts, totalCount, err := s.shiftRepo.GetShifts(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, totalCount, nil
}

func (s *shiftService) GetShiftStats(ctx context.Context) (*models.ShiftStats, error) {
	stats, err := s.shiftRepo.GetShiftStats(ctx, s.now().In(s.loc).Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get shift stats: %w", err)
	}
	return stats, nil
}
