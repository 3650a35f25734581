// Package repository provides persistence implementations for the admin page
// configuration using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/atinyakov/onboarding/internal/models"
)

// configName identifies the single configuration row.
const configName = "default"

// PostgresConfigRepository stores the admin page configuration as a single
// named row of JSONB columns.
type PostgresConfigRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresConfigRepository creates a new PostgresConfigRepository using
// the provided *sql.DB.
func NewPostgresConfigRepository(db *sql.DB) *PostgresConfigRepository {
	return &PostgresConfigRepository{DB: db}
}

// GetConfig retrieves the page configuration. Returns sql.ErrNoRows when the
// configuration has never been seeded.
func (r *PostgresConfigRepository) GetConfig(ctx context.Context) (*models.PageConfig, error) {
	var p1, p2, p3, req []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT page1, page2, page3, required_fields FROM admin_config WHERE config_name = $1
	`, configName).Scan(&p1, &p2, &p3, &req)
	if err != nil {
		return nil, err
	}

	cfg := &models.PageConfig{}
	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{p1, &cfg.Page1},
		{p2, &cfg.Page2},
		{p3, &cfg.Page3},
		{req, &cfg.RequiredFields},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("unmarshal config column: %w", err)
		}
	}
	if cfg.RequiredFields == nil {
		cfg.RequiredFields = map[string]bool{}
	}
	return cfg, nil
}

// SaveConfig upserts the full page configuration.
func (r *PostgresConfigRepository) SaveConfig(ctx context.Context, cfg models.PageConfig) error {
	p1, err := json.Marshal(cfg.Page1)
	if err != nil {
		return fmt.Errorf("marshal page1: %w", err)
	}
	p2, err := json.Marshal(cfg.Page2)
	if err != nil {
		return fmt.Errorf("marshal page2: %w", err)
	}
	p3, err := json.Marshal(cfg.Page3)
	if err != nil {
		return fmt.Errorf("marshal page3: %w", err)
	}
	req, err := json.Marshal(cfg.RequiredFields)
	if err != nil {
		return fmt.Errorf("marshal required fields: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO admin_config (config_name, page1, page2, page3, required_fields)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (config_name) DO UPDATE SET
			page1 = EXCLUDED.page1,
			page2 = EXCLUDED.page2,
			page3 = EXCLUDED.page3,
			required_fields = EXCLUDED.required_fields
	`, configName, p1, p2, p3, req)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// SeedDefault inserts the configuration only if no row exists yet.
func (r *PostgresConfigRepository) SeedDefault(ctx context.Context, cfg models.PageConfig) error {
	p1, _ := json.Marshal(cfg.Page1)
	p2, _ := json.Marshal(cfg.Page2)
	p3, _ := json.Marshal(cfg.Page3)
	req, _ := json.Marshal(cfg.RequiredFields)

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_config (config_name, page1, page2, page3, required_fields)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, configName, p1, p2, p3, req)
	return err
}
