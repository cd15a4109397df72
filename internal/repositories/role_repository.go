package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crudefi_backend/internal/models"
)

// RoleRepository defines the interface for role registry database operations.
type RoleRepository interface {
	CreateRole(ctx context.Context, executor SQLExecutor, role *models.Role) (*models.Role, error)
	GetRoleByName(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error)
	// ShareLockRole reads a role under FOR SHARE so it cannot be deleted before the caller's tx ends.
	ShareLockRole(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error)
	// LockRole reads a role under FOR UPDATE, waiting for concurrent ShareLockRole holders.
	LockRole(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error)
	GetRoles(ctx context.Context) ([]models.Role, error)
	UpdateRoleRate(ctx context.Context, executor SQLExecutor, role *models.Role) (*models.Role, error)
	DeleteRole(ctx context.Context, executor SQLExecutor, name string) error
	CountOpenShiftsForRole(ctx context.Context, executor SQLExecutor, name string) (int, error)
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

const roleColumns = `role_name, base_daily_rate, created_at, updated_at`

func scanRoleRow(row scanner, role *models.Role) error {
	return row.Scan(&role.RoleName, &role.BaseDailyRate, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) CreateRole(ctx context.Context, executor SQLExecutor, role *models.Role) (*models.Role, error) {
	query := `INSERT INTO roles (role_name, base_daily_rate) VALUES ($1, $2) RETURNING ` + roleColumns

	var created models.Role
	if err := scanRoleRow(executor.QueryRowContext(ctx, query, role.RoleName, role.BaseDailyRate), &created); err != nil {
		if IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: role %q", ErrDuplicateKey, role.RoleName)
		}
		return nil, fmt.Errorf("%w: creating role: %v", ErrDatabaseError, err)
	}
	return &created, nil
}

func (r *roleRepository) GetRoleByName(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error) {
	if executor == nil {
		executor = r.db
	}
	return r.getRole(ctx, executor, name, "")
}

func (r *roleRepository) ShareLockRole(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error) {
	return r.getRole(ctx, executor, name, " FOR SHARE")
}

func (r *roleRepository) LockRole(ctx context.Context, executor SQLExecutor, name string) (*models.Role, error) {
	return r.getRole(ctx, executor, name, " FOR UPDATE")
}

func (r *roleRepository) getRole(ctx context.Context, executor SQLExecutor, name, lock string) (*models.Role, error) {
	var role models.Role
	err := scanRoleRow(executor.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE role_name = $1`+lock, name), &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting role %q: %v", ErrDatabaseError, name, err)
	}
	return &role, nil
}

func (r *roleRepository) GetRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY role_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying roles: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		if err := scanRoleRow(rows, &role); err != nil {
			return nil, fmt.Errorf("%w: scanning role: %v", ErrDatabaseError, err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating role rows: %v", ErrDatabaseError, err)
	}
	return roles, nil
}

// UpdateRoleRate changes the rate used by shifts opened from now on.
func (r *roleRepository) UpdateRoleRate(ctx context.Context, executor SQLExecutor, role *models.Role) (*models.Role, error) {
	query := `UPDATE roles SET base_daily_rate = $1, updated_at = NOW() WHERE role_name = $2 RETURNING ` + roleColumns

	var updated models.Role
	if err := scanRoleRow(executor.QueryRowContext(ctx, query, role.BaseDailyRate, role.RoleName), &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating role %q: %v", ErrDatabaseError, role.RoleName, err)
	}
	return &updated, nil
}

func (r *roleRepository) DeleteRole(ctx context.Context, executor SQLExecutor, name string) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM roles WHERE role_name = $1`, name)
	if err != nil {
		return fmt.Errorf("%w: deleting role %q: %v", ErrDatabaseError, name, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) CountOpenShiftsForRole(ctx context.Context, executor SQLExecutor, name string) (int, error) {
	if executor == nil {
		executor = r.db
	}
	var n int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE role = $1 AND shift_status = 'Open'`, name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: counting open shifts for role %q: %v", ErrDatabaseError, name, err)
	}
	return n, nil
}
