package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/atinyakov/onboarding/internal/models"
)

func setupConfigMock(t *testing.T) (*PostgresConfigRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresConfigRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestGetConfig(t *testing.T) {
	repo, mock, cleanup := setupConfigMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"page1", "page2", "page3", "required_fields"}).
		AddRow(
			[]byte(`["email","age"]`),
			[]byte(`["aboutMe","address"]`),
			[]byte(`["birthdate"]`),
			[]byte(`{"aboutMe":true,"address":true,"birthdate":true}`),
		)

	mock.ExpectQuery("SELECT page1, page2, page3, required_fields FROM admin_config").
		WithArgs("default").
		WillReturnRows(rows)

	cfg, err := repo.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Page2) != 2 || cfg.Page2[0] != "aboutMe" {
		t.Errorf("Page2 = %v; want [aboutMe address]", cfg.Page2)
	}
	if !cfg.RequiredFields["birthdate"] {
		t.Errorf("expected birthdate to be required")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetConfig_NilRequiredFields(t *testing.T) {
	repo, mock, cleanup := setupConfigMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"page1", "page2", "page3", "required_fields"}).
		AddRow([]byte(`["email","age"]`), []byte(`["aboutMe"]`), []byte(`["birthdate"]`), []byte(`null`))

	mock.ExpectQuery("SELECT page1, page2, page3, required_fields FROM admin_config").
		WithArgs("default").
		WillReturnRows(rows)

	cfg, err := repo.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequiredFields == nil {
		t.Errorf("RequiredFields must never be nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetConfig_NotSeeded(t *testing.T) {
	repo, mock, cleanup := setupConfigMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT page1, page2, page3, required_fields FROM admin_config").
		WithArgs("default").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetConfig(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSaveConfig(t *testing.T) {
	repo, mock, cleanup := setupConfigMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO admin_config").
		WithArgs("default", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveConfig(context.Background(), *models.DefaultPageConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSeedDefault(t *testing.T) {
	repo, mock, cleanup := setupConfigMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO admin_config").
		WithArgs("default", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SeedDefault(context.Background(), *models.DefaultPageConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
