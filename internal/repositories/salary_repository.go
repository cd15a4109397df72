package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crudefi_backend/internal/models"

	"github.com/shopspring/decimal"
)

// SalaryRepository defines the interface for salary ledger database operations.
type SalaryRepository interface {
	CreateSalaryRecord(ctx context.Context, executor SQLExecutor, record *models.SalaryRecord) (*models.SalaryRecord, error)
	ExistsForShift(ctx context.Context, executor SQLExecutor, shiftID int64) (bool, error)
	GetSalaryRecordByID(ctx context.Context, executor SQLExecutor, id int64) (*models.SalaryRecord, error)
	GetSalaryRecords(ctx context.Context, filters models.SalaryFilters, from, to *time.Time) ([]models.SalaryRecord, int, error)
	// MarkPaid flips Pending to Paid. ErrNotFound means no Pending record with that id.
	MarkPaid(ctx context.Context, executor SQLExecutor, id int64, paidBy *int64) error
	MonthlyReport(ctx context.Context, from, to time.Time) ([]models.MonthlySalaryRow, error)
	PendingTotals(ctx context.Context) (int, decimal.Decimal, error)
	PaidTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type salaryRepository struct {
	db *sql.DB
}

// NewSalaryRepository creates a new instance of SalaryRepository.
func NewSalaryRepository(db *sql.DB) SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `sr.record_id, sr.shift_id, sr.staff_id, sr.total_hours, sr.hourly_rate, sr.total_amount,
	sr.payment_status, sr.deduction_reason, sr.paid_at, sr.paid_by, sr.created_at`

func scanSalaryRow(row scanner, rec *models.SalaryRecord, extra ...interface{}) error {
	var reason sql.NullString
	var paidAt sql.NullTime
	var paidBy sql.NullInt64
	dest := append([]interface{}{
		&rec.RecordID, &rec.ShiftID, &rec.StaffID, &rec.TotalHours, &rec.HourlyRate, &rec.TotalAmount,
		&rec.PaymentStatus, &reason, &paidAt, &paidBy, &rec.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if reason.Valid {
		r := reason.String
		rec.DeductionReason = &r
	}
	if paidAt.Valid {
		t := paidAt.Time
		rec.PaidAt = &t
	}
	if paidBy.Valid {
		id := paidBy.Int64
		rec.PaidBy = &id
	}
	return nil
}

func (r *salaryRepository) CreateSalaryRecord(ctx context.Context, executor SQLExecutor, record *models.SalaryRecord) (*models.SalaryRecord, error) {
	query := `INSERT INTO salary_records AS sr
	            (shift_id, staff_id, total_hours, hourly_rate, total_amount, payment_status, deduction_reason)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING ` + salaryColumns

	var created models.SalaryRecord
	err := scanSalaryRow(executor.QueryRowContext(ctx, query,
		record.ShiftID, record.StaffID, record.TotalHours, record.HourlyRate, record.TotalAmount,
		models.PaymentStatusPending, record.DeductionReason,
	), &created)
	if err != nil {
		if IsUniqueViolation(err, ConstraintSalaryShiftUnique) {
			return nil, fmt.Errorf("%w: salary record for shift %d", ErrDuplicateKey, record.ShiftID)
		}
		return nil, fmt.Errorf("%w: creating salary record: %v", ErrDatabaseError, err)
	}
	return &created, nil
}

func (r *salaryRepository) ExistsForShift(ctx context.Context, executor SQLExecutor, shiftID int64) (bool, error) {
	if executor == nil {
		executor = r.db
	}
	var exists bool
	err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM salary_records WHERE shift_id = $1)`, shiftID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking salary record for shift %d: %v", ErrDatabaseError, shiftID, err)
	}
	return exists, nil
}

func (r *salaryRepository) GetSalaryRecordByID(ctx context.Context, executor SQLExecutor, id int64) (*models.SalaryRecord, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + salaryColumns + `, st.full_name, s.role, to_char(s.date, 'YYYY-MM-DD')
	          FROM salary_records sr
	          JOIN staff st ON st.staff_id = sr.staff_id
	          JOIN shifts s ON s.shift_id = sr.shift_id
	          WHERE sr.record_id = $1`

	var rec models.SalaryRecord
	var staffName, role, shiftDate sql.NullString
	if err := scanSalaryRow(executor.QueryRowContext(ctx, query, id), &rec, &staffName, &role, &shiftDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting salary record %d: %v", ErrDatabaseError, id, err)
	}
	setSalaryJoins(&rec, staffName, role, shiftDate)
	return &rec, nil
}

func setSalaryJoins(rec *models.SalaryRecord, staffName, role, shiftDate sql.NullString) {
	if staffName.Valid {
		v := staffName.String
		rec.StaffName = &v
	}
	if role.Valid {
		v := role.String
		rec.Role = &v
	}
	if shiftDate.Valid {
		v := shiftDate.String
		rec.ShiftDate = &v
	}
}

func (r *salaryRepository) GetSalaryRecords(ctx context.Context, filters models.SalaryFilters, from, to *time.Time) ([]models.SalaryRecord, int, error) {
	records := []models.SalaryRecord{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + salaryColumns + `, st.full_name, s.role, to_char(s.date, 'YYYY-MM-DD'),
	    COUNT(*) OVER() AS total_count
	  FROM salary_records sr
	  JOIN staff st ON st.staff_id = sr.staff_id
	  JOIN shifts s ON s.shift_id = sr.shift_id`)

	var conditions []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filters.Status != "" {
		add("sr.payment_status = $%d", filters.Status)
	}
	if filters.StaffID != nil {
		add("sr.staff_id = $%d", *filters.StaffID)
	}
	if from != nil {
		add("sr.created_at >= $%d", *from)
	}
	if to != nil {
		add("sr.created_at < $%d", *to)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY sr.created_at DESC, sr.record_id DESC")

	if filters.PageSize > 0 {
		args = append(args, filters.PageSize)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		if filters.Page > 0 {
			args = append(args, (filters.Page-1)*filters.PageSize)
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying salary records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.SalaryRecord
		var staffName, role, shiftDate sql.NullString
		if err := scanSalaryRow(rows, &rec, &staffName, &role, &shiftDate, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning salary record: %v", ErrDatabaseError, err)
		}
		setSalaryJoins(&rec, staffName, role, shiftDate)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating salary rows: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}

func (r *salaryRepository) MarkPaid(ctx context.Context, executor SQLExecutor, id int64, paidBy *int64) error {
	result, err := executor.ExecContext(ctx,
		`UPDATE salary_records SET payment_status = $1, paid_at = NOW(), paid_by = $2
		 WHERE record_id = $3 AND payment_status = $4`,
		models.PaymentStatusPaid, paidBy, id, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("%w: marking salary record %d paid: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MonthlyReport groups salary records created in [from, to) by staff and role.
func (r *salaryRepository) MonthlyReport(ctx context.Context, from, to time.Time) ([]models.MonthlySalaryRow, error) {
	query := `SELECT sr.staff_id, st.full_name, s.role,
	                 COALESCE(SUM(sr.total_hours), 0), COALESCE(SUM(sr.total_amount), 0), COUNT(*)
	          FROM salary_records sr
	          JOIN staff st ON st.staff_id = sr.staff_id
	          JOIN shifts s ON s.shift_id = sr.shift_id
	          WHERE sr.created_at >= $1 AND sr.created_at < $2
	          GROUP BY sr.staff_id, st.full_name, s.role
	          ORDER BY st.full_name ASC, s.role ASC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: querying monthly salary report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.MonthlySalaryRow{}
	for rows.Next() {
		var row models.MonthlySalaryRow
		if err := rows.Scan(&row.StaffID, &row.FullName, &row.Role, &row.TotalHours, &row.TotalAmount, &row.ShiftCount); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly salary row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly salary rows: %v", ErrDatabaseError, err)
	}
	return report, nil
}

func (r *salaryRepository) PendingTotals(ctx context.Context) (int, decimal.Decimal, error) {
	var count int
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM salary_records WHERE payment_status = $1`,
		models.PaymentStatusPending).Scan(&count, &amount)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("%w: summing pending salary: %v", ErrDatabaseError, err)
	}
	return count, amount, nil
}

func (r *salaryRepository) PaidTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM salary_records
		 WHERE payment_status = $1 AND paid_at >= $2 AND paid_at < $3`,
		models.PaymentStatusPaid, from, to).Scan(&amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: summing paid salary: %v", ErrDatabaseError, err)
	}
	return amount, nil
}
