package services

import (
	"context"
	"fmt"
	"time"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"
)

// DashboardService aggregates the counters shown on the landing page.
type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	staffRepo  repositories.StaffRepository
	roleRepo   repositories.RoleRepository
	shiftRepo  repositories.ShiftRepository
	salaryRepo repositories.SalaryRepository
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(str repositories.StaffRepository, rr repositories.RoleRepository, shr repositories.ShiftRepository, sr repositories.SalaryRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{staffRepo: str, roleRepo: rr, shiftRepo: shr, salaryRepo: sr, loc: loc, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	now := s.now().In(s.loc)
	today := now.Format("2006-01-02")

	staffCount, err := s.staffRepo.CountStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}
	roles, err := s.roleRepo.GetRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	stats, err := s.shiftRepo.GetShiftStats(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift stats: %w", err)
	}
	pendingCount, pendingAmount, err := s.salaryRepo.PendingTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending salary totals: %w", err)
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	paid, err := s.salaryRepo.PaidTotalBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to load paid salary total: %w", err)
	}

	return &models.DashboardSummary{
		StaffCount:          staffCount,
		RoleCount:           len(roles),
		OpenShifts:          stats.OpenShifts,
		ShiftsToday:         stats.ShiftsToday,
		PendingSalaryCount:  pendingCount,
		PendingSalaryAmount: pendingAmount,
		PaidThisMonthAmount: paid,
	}, nil
}
