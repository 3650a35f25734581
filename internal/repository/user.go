// Package repository provides persistence implementations for the onboarding
// services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atinyakov/onboarding/internal/models"
)

// PostgresUserRepository implements user persistence against a PostgreSQL
// database. Soft-deleted rows are invisible to every read.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// EmailTaken reports whether a live user with the given email exists.
func (r *PostgresUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`,
		email,
	).Scan(&exists)
	return exists, err
}

// UsernameTaken reports whether a live user with the given username exists.
func (r *PostgresUserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND deleted_at IS NULL)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user row with the given password hash.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User, passwordHash string) error {
	data, err := json.Marshal(u.Data)
	if err != nil {
		return fmt.Errorf("marshal onboarding data: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, age, onboarding_data, current_step)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Username, u.Email, passwordHash, u.Age, data, u.CurrentStep)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser fetches a single live user by ID. Returns sql.ErrNoRows when the
// user does not exist or has been deleted.
func (r *PostgresUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var (
		u       models.User
		data    []byte
		created time.Time
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, age, onboarding_data, current_step, created_at
		  FROM users WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.Age, &data, &u.CurrentStep, &created)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &u.Data); err != nil {
		return nil, fmt.Errorf("unmarshal onboarding data: %w", err)
	}
	u.CreatedAt = created.UTC().Format(time.RFC3339)
	return &u, nil
}

// SaveProgress stores the full onboarding record and step for a user.
func (r *PostgresUserRepository) SaveProgress(ctx context.Context, id string, record models.OnboardingRecord, step int) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal onboarding data: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE users SET onboarding_data = $2, current_step = $3
		 WHERE id = $1 AND deleted_at IS NULL
	`, id, data, step)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// SetStep updates only the current step for a user.
func (r *PostgresUserRepository) SetStep(ctx context.Context, id string, step int) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET current_step = $2 WHERE id = $1 AND deleted_at IS NULL
	`, id, step)
	return err
}

// ListUsers returns all live users ordered by registration time.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, email, age, onboarding_data, current_step, created_at
		  FROM users WHERE deleted_at IS NULL ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u       models.User
			data    []byte
			created time.Time
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Age, &data, &u.CurrentStep, &created); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal(data, &u.Data); err != nil {
			return nil, fmt.Errorf("unmarshal onboarding data: %w", err)
		}
		u.CreatedAt = created.UTC().Format(time.RFC3339)
		users = append(users, u)
	}
	return users, rows.Err()
}

// SoftDeleteUser marks a user deleted. Returns false when no live user with
// the given ID exists. A background purger removes the row later.
func (r *PostgresUserRepository) SoftDeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ResetAllSteps returns every live user to step 1. Invoked after admin
// configuration changes so all users re-run the wizard against the new pages.
func (r *PostgresUserRepository) ResetAllSteps(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET current_step = 1 WHERE deleted_at IS NULL
	`)
	return err
}
