package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crudefi_backend/internal/models"
)

// AuthRepository defines the interface for user account database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, string, error)
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new active user and returns its id.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, full_name, access_role, is_active)
	          VALUES ($1, $2, $3, $4, TRUE)
	          RETURNING id`

	var userID int64
	err := executor.QueryRowContext(ctx, query, user.Username, hashedPassword, user.FullName, user.AccessRole).Scan(&userID)
	if err != nil {
		if IsUniqueViolation(err, ConstraintUsernameUnique) {
			return 0, fmt.Errorf("%w: username %q", ErrDuplicateKey, user.Username)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

const userColumns = `id, username, password_hash, full_name, access_role, is_active, created_at, updated_at`

func scanUser(row scanner) (*models.User, string, error) {
	user := &models.User{}
	var hash string
	var fullName sql.NullString
	err := row.Scan(&user.ID, &user.Username, &hash, &fullName, &user.AccessRole, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return user, hash, nil
}

// FindUserByUsername returns the user and their password hash.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// FindUserByID returns the user without the password hash.
func (r *authRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, _, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	return user, err
}
