package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crudefi_backend/internal/models"
)

// ShiftRepository defines the interface for shift database operations.
type ShiftRepository interface {
	CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Shift, error)
	// LockShift reads a shift with a row lock; executor must be a transaction.
	LockShift(ctx context.Context, executor SQLExecutor, id int64) (*models.Shift, error)
	GetOpenShiftByStaff(ctx context.Context, executor SQLExecutor, staffID int64) (*models.Shift, error)
	CloseShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, int, error)
	GetShiftStats(ctx context.Context, today string) (*models.ShiftStats, error)
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `s.shift_id, s.staff_id, to_char(s.date, 'YYYY-MM-DD'), s.login_time, s.logout_time,
	s.shift_status, s.role, s.role_rate, s.actual_hours, s.deduction_reason,
	s.created_by, s.closed_by, s.created_at, s.updated_at`

func shiftScanTargets(shift *models.Shift, logout *sql.NullTime, reason *sql.NullString, createdBy, closedBy *sql.NullInt64) []interface{} {
	return []interface{}{
		&shift.ShiftID, &shift.StaffID, &shift.Date, &shift.LoginTime, logout,
		&shift.ShiftStatus, &shift.Role, &shift.RoleRate, &shift.ActualHours, reason,
		createdBy, closedBy, &shift.CreatedAt, &shift.UpdatedAt,
	}
}

func applyShiftNullables(shift *models.Shift, logout sql.NullTime, reason sql.NullString, createdBy, closedBy sql.NullInt64) {
	if logout.Valid {
		t := logout.Time
		shift.LogoutTime = &t
	}
	if reason.Valid {
		r := reason.String
		shift.DeductionReason = &r
	}
	if createdBy.Valid {
		id := createdBy.Int64
		shift.CreatedBy = &id
	}
	if closedBy.Valid {
		id := closedBy.Int64
		shift.ClosedBy = &id
	}
}

// scanShiftRow scans shiftColumns plus any extra destinations, returning the raw error.
func scanShiftRow(row scanner, shift *models.Shift, extra ...interface{}) error {
	var logout sql.NullTime
	var reason sql.NullString
	var createdBy, closedBy sql.NullInt64
	dest := append(shiftScanTargets(shift, &logout, &reason, &createdBy, &closedBy), extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	applyShiftNullables(shift, logout, reason, createdBy, closedBy)
	return nil
}

func (r *shiftRepository) CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts AS s (staff_id, date, login_time, shift_status, role, role_rate, created_by)
	          VALUES ($1, $2::date, $3, $4, $5, $6, $7)
	          RETURNING ` + shiftColumns

	var created models.Shift
	err := scanShiftRow(executor.QueryRowContext(ctx, query,
		shift.StaffID, shift.Date, shift.LoginTime, models.ShiftStatusOpen,
		shift.Role, shift.RoleRate, shift.CreatedBy,
	), &created)
	if err != nil {
		if IsUniqueViolation(err, ConstraintOneOpenShift) {
			return nil, fmt.Errorf("%w: staff %d already has an open shift", ErrDuplicateKey, shift.StaffID)
		}
		if IsForeignKeyViolation(err) {
			// Only a missing staff row is a not-found; created_by points at users.
			if ConstraintOf(err) == ConstraintShiftStaffFK {
				return nil, fmt.Errorf("%w: staff %d", ErrNotFound, shift.StaffID)
			}
			return nil, fmt.Errorf("%w: creating shift (constraint %s)", ErrForeignKey, ConstraintOf(err))
		}
		return nil, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return &created, nil
}

func (r *shiftRepository) GetShiftByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Shift, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + shiftColumns + `, st.full_name
	          FROM shifts s
	          JOIN staff st ON st.staff_id = s.staff_id
	          WHERE s.shift_id = $1`

	var shift models.Shift
	var staffName sql.NullString
	if err := scanShiftRow(executor.QueryRowContext(ctx, query, id), &shift, &staffName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shift by ID %d: %v", ErrDatabaseError, id, err)
	}
	if staffName.Valid {
		shift.StaffName = &staffName.String
	}
	return &shift, nil
}

func (r *shiftRepository) LockShift(ctx context.Context, executor SQLExecutor, id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.shift_id = $1 FOR UPDATE`

	var shift models.Shift
	if err := scanShiftRow(executor.QueryRowContext(ctx, query, id), &shift); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking shift ID %d: %v", ErrDatabaseError, id, err)
	}
	return &shift, nil
}

func (r *shiftRepository) GetOpenShiftByStaff(ctx context.Context, executor SQLExecutor, staffID int64) (*models.Shift, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.staff_id = $1 AND s.shift_status = 'Open' LIMIT 1`

	var shift models.Shift
	if err := scanShiftRow(executor.QueryRowContext(ctx, query, staffID), &shift); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting open shift for staff %d: %v", ErrDatabaseError, staffID, err)
	}
	return &shift, nil
}

// CloseShift moves an Open shift to Closed. ErrNotFound means no Open shift with that id.
func (r *shiftRepository) CloseShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts AS s SET
	            logout_time = $1, shift_status = $2, actual_hours = $3,
	            deduction_reason = $4, closed_by = $5, updated_at = NOW()
	          WHERE s.shift_id = $6 AND s.shift_status = 'Open'
	          RETURNING ` + shiftColumns

	var closed models.Shift
	err := scanShiftRow(executor.QueryRowContext(ctx, query,
		shift.LogoutTime, models.ShiftStatusClosed, shift.ActualHours,
		shift.DeductionReason, shift.ClosedBy, shift.ShiftID,
	), &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: closing shift ID %d: %v", ErrDatabaseError, shift.ShiftID, err)
	}
	return &closed, nil
}

// buildShiftFilter renders the WHERE clause with positional parameters.
func buildShiftFilter(filters models.ShiftFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filters.Date != "" {
		add("s.date = $%d::date", filters.Date)
	}
	if filters.Status != "" {
		add("s.shift_status = $%d", filters.Status)
	}
	if filters.Role != "" {
		add("s.role = $%d", filters.Role)
	}
	if filters.StaffName != "" {
		add("st.full_name ILIKE $%d", "%"+filters.StaffName+"%")
	}
	if filters.StaffID != nil {
		add("s.staff_id = $%d", *filters.StaffID)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *shiftRepository) GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + shiftColumns + `, st.full_name, COUNT(*) OVER() AS total_count
	  FROM shifts s
	  JOIN staff st ON st.staff_id = s.staff_id`)

	where, args := buildShiftFilter(filters)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY s.login_time DESC, s.shift_id DESC")

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
		return nil, 0, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shift models.Shift
		var staffName sql.NullString
		if err := scanShiftRow(rows, &shift, &staffName, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		if staffName.Valid {
			shift.StaffName = &staffName.String
		}
		shifts = append(shifts, shift)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

func (r *shiftRepository) GetShiftStats(ctx context.Context, today string) (*models.ShiftStats, error) {
	query := `SELECT
	            COUNT(*),
	            COUNT(*) FILTER (WHERE shift_status = 'Open'),
	            COUNT(*) FILTER (WHERE shift_status = 'Closed'),
	            COUNT(*) FILTER (WHERE date = $1::date),
	            COUNT(*) FILTER (WHERE shift_status = 'Closed' AND actual_hours = 0),
	            COALESCE(ROUND(AVG(actual_hours) FILTER (WHERE shift_status = 'Closed'), 2), 0),
	            COALESCE(SUM(actual_hours), 0)
	          FROM shifts`

	var stats models.ShiftStats
	err := r.db.QueryRowContext(ctx, query, today).Scan(
		&stats.TotalShifts, &stats.OpenShifts, &stats.ClosedShifts, &stats.ShiftsToday,
		&stats.ShortShifts, &stats.AverageHours, &stats.TotalHours,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: computing shift stats: %v", ErrDatabaseError, err)
	}
	return &stats, nil
}

