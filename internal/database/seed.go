package database

import (
	"context"
	"database/sql"
	"fmt"

	"crudefi_backend/internal/models"
	"crudefi_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap Admin account when none exists.
// An empty password disables seeding.
func SeedAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	if password == "" {
		utils.LogInfo("Admin seeding skipped, ADMIN_PASSWORD not set")
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE access_role = $1`, models.AccessRoleAdmin).Scan(&count); err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, access_role) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING`,
		username, string(hash), "Administrator", models.AccessRoleAdmin)
	if err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}
	utils.LogInfo("Seeded admin user", map[string]interface{}{"username": username})
	return nil
}
