package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"
	"crudefi_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Salary ---
var (
	ErrSalaryRecordNotFound = errors.New("salary record not found")
	ErrInvalidMonth         = errors.New("invalid month, use YYYY-MM")
)

// --- SalaryService Interface ---
type SalaryService interface {
	GetSalaryRecords(ctx context.Context, filters models.SalaryFilters) ([]models.SalaryRecord, int, error)
	GetSalaryRecordByID(ctx context.Context, recordID int64) (*models.SalaryRecord, error)
	MarkPaid(ctx context.Context, actorID int64, recordID int64) (*models.SalaryRecord, error)
	MonthlyReport(ctx context.Context, month string) (*models.MonthlySalaryReport, error)
	WriteMonthlyReportPDF(ctx context.Context, month string, w io.Writer) error
	WritePayslipPDF(ctx context.Context, recordID int64, w io.Writer) error
}

type salaryService struct {
	salaryRepo repositories.SalaryRepository
	db         *sql.DB
	loc        *time.Location
}

// NewSalaryService creates a new instance of SalaryService.
func NewSalaryService(sr repositories.SalaryRepository, db *sql.DB, loc *time.Location) SalaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &salaryService{salaryRepo: sr, db: db, loc: loc}
}

// monthBounds returns [first instant of month, first instant of next month) in loc.
func monthBounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	month = strings.TrimSpace(month)
	if !utils.IsValidMonth(month) {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

func (s *salaryService) GetSalaryRecords(ctx context.Context, filters models.SalaryFilters) ([]models.SalaryRecord, int, error) {
	filters.Status = strings.TrimSpace(filters.Status)
	if filters.Status != "" && filters.Status != models.PaymentStatusPending && filters.Status != models.PaymentStatusPaid {
		return nil, 0, fmt.Errorf("%w: status must be Pending or Paid", ErrValidation)
	}

	var from, to *time.Time
	if strings.TrimSpace(filters.Month) != "" {
		start, end, err := monthBounds(filters.Month, s.loc)
		if err != nil {
			return nil, 0, err
		}
		from, to = &start, &end
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	records, total, err := s.salaryRepo.GetSalaryRecords(ctx, filters, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get salary records: %w", err)
	}
	return records, total, nil
}

func (s *salaryService) GetSalaryRecordByID(ctx context.Context, recordID int64) (*models.SalaryRecord, error) {
	record, err := s.salaryRepo.GetSalaryRecordByID(ctx, nil, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalaryRecordNotFound
		}
		return nil, fmt.Errorf("failed to get salary record: %w", err)
	}
	return record, nil
}

// MarkPaid moves a record from Pending to Paid. Paying an already Paid record is a no-op.
func (s *salaryService) MarkPaid(ctx context.Context, actorID int64, recordID int64) (*models.SalaryRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	changed := true
	if err := s.salaryRepo.MarkPaid(ctx, tx, recordID, &actorID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to mark salary record paid: %w", err)
		}
		changed = false
	}

	record, err := s.salaryRepo.GetSalaryRecordByID(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSalaryRecordNotFound
		}
		return nil, fmt.Errorf("failed to reload salary record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit salary payment: %w", err)
	}

	if changed {
		utils.LogInfo("Salary record paid", map[string]interface{}{
			"record_id": recordID, "amount": record.TotalAmount.String(), "paid_by": actorID,
		})
	}
	return record, nil
}

func (s *salaryService) MonthlyReport(ctx context.Context, month string) (*models.MonthlySalaryReport, error) {
	from, to, err := monthBounds(month, s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.salaryRepo.MonthlyReport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly report: %w", err)
	}

	report := &models.MonthlySalaryReport{
		Month:       strings.TrimSpace(month),
		Rows:        rows,
		TotalHours:  decimal.Zero,
		TotalAmount: decimal.Zero,
	}
	for _, row := range rows {
		report.TotalHours = report.TotalHours.Add(row.TotalHours)
		report.TotalAmount = report.TotalAmount.Add(row.TotalAmount)
		report.ShiftCount += row.ShiftCount
	}
	return report, nil
}

func (s *salaryService) WriteMonthlyReportPDF(ctx context.Context, month string, w io.Writer) error {
	report, err := s.MonthlyReport(ctx, month)
	if err != nil {
		return err
	}
	return RenderMonthlyReportPDF(report, w)
}

func (s *salaryService) WritePayslipPDF(ctx context.Context, recordID int64, w io.Writer) error {
	record, err := s.GetSalaryRecordByID(ctx, recordID)
	if err != nil {
		return err
	}
	return RenderPayslipPDF(record, w)
}
