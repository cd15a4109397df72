package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crudefi_backend/internal/models"
)

// StaffRepository defines the interface for staff directory database operations.
type StaffRepository interface {
	CreateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) (*models.Staff, error)
	GetStaffByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Staff, error)
	GetStaff(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.Staff, int, error)
	UpdateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) (*models.Staff, error)
	DeleteStaff(ctx context.Context, executor SQLExecutor, id int64) error
	CountStaff(ctx context.Context) (int, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `staff_id, full_name, national_id, phone_number, created_at, updated_at`

// scanStaffRow returns the raw driver error so callers can classify it.
func scanStaffRow(row scanner, staff *models.Staff) error {
	var phone sql.NullString
	if err := row.Scan(&staff.StaffID, &staff.FullName, &staff.NationalID, &phone, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return err
	}
	staff.PhoneNumber = nil
	if phone.Valid {
		staff.PhoneNumber = &phone.String
	}
	return nil
}

func scanStaff(row scanner) (*models.Staff, error) {
	var staff models.Staff
	if err := scanStaffRow(row, &staff); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning staff: %v", ErrDatabaseError, err)
	}
	return &staff, nil
}

func (r *staffRepository) CreateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) (*models.Staff, error) {
	query := `INSERT INTO staff (full_name, national_id, phone_number)
	          VALUES ($1, $2, $3)
	          RETURNING ` + staffColumns

	var created models.Staff
	err := scanStaffRow(executor.QueryRowContext(ctx, query, staff.FullName, staff.NationalID, staff.PhoneNumber), &created)
	if err != nil {
		if IsUniqueViolation(err, ConstraintNationalIDUnique) {
			return nil, fmt.Errorf("%w: national_id %s", ErrDuplicateKey, staff.NationalID)
		}
		return nil, fmt.Errorf("%w: creating staff: %v", ErrDatabaseError, err)
	}
	return &created, nil
}

func (r *staffRepository) GetStaffByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Staff, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1`
	return scanStaff(executor.QueryRowContext(ctx, query, id))
}

func (r *staffRepository) GetStaff(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.Staff, int, error) {
	staffList := []models.Staff{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + staffColumns + `, COUNT(*) OVER() AS total_count FROM staff`)

	var args []interface{}
	argCount := 1

	if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" {
		searchPattern := "%" + strings.TrimSpace(*searchTerm) + "%"
		queryBuilder.WriteString(fmt.Sprintf(" WHERE (full_name ILIKE $%d OR national_id ILIKE $%d OR phone_number ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY full_name ASC, staff_id ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staff models.Staff
		var phone sql.NullString
		if err := rows.Scan(&staff.StaffID, &staff.FullName, &staff.NationalID, &phone,
			&staff.CreatedAt, &staff.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning staff from list: %v", ErrDatabaseError, err)
		}
		if phone.Valid {
			staff.PhoneNumber = &phone.String
		}
		staffList = append(staffList, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staffList, totalCount, nil
}

func (r *staffRepository) UpdateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) (*models.Staff, error) {
	query := `UPDATE staff SET full_name = $1, national_id = $2, phone_number = $3, updated_at = NOW()
	          WHERE staff_id = $4
	          RETURNING ` + staffColumns

	var updated models.Staff
	err := scanStaffRow(executor.QueryRowContext(ctx, query, staff.FullName, staff.NationalID, staff.PhoneNumber, staff.StaffID), &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if IsUniqueViolation(err, ConstraintNationalIDUnique) {
			return nil, fmt.Errorf("%w: national_id %s", ErrDuplicateKey, staff.NationalID)
		}
		return nil, fmt.Errorf("%w: updating staff ID %d: %v", ErrDatabaseError, staff.StaffID, err)
	}
	return &updated, nil
}

func (r *staffRepository) DeleteStaff(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM staff WHERE staff_id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: staff ID %d is referenced by %s", ErrForeignKey, id, ConstraintOf(err))
		}
		return fmt.Errorf("%w: deleting staff ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) CountStaff(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting staff: %v", ErrDatabaseError, err)
	}
	return n, nil
}
