package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/onboarding/internal/models"
)

type mockUserRepo struct {
	EmailTakenFunc     func(ctx context.Context, email string) (bool, error)
	UsernameTakenFunc  func(ctx context.Context, username string) (bool, error)
	CreateUserFunc     func(ctx context.Context, u models.User, passwordHash string) error
	GetUserFunc        func(ctx context.Context, id string) (*models.User, error)
	SaveProgressFunc   func(ctx context.Context, id string, record models.OnboardingRecord, step int) error
	SetStepFunc        func(ctx context.Context, id string, step int) error
	ListUsersFunc      func(ctx context.Context) ([]models.User, error)
	SoftDeleteUserFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockUserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	if m.EmailTakenFunc != nil {
		return m.EmailTakenFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if m.UsernameTakenFunc != nil {
		return m.UsernameTakenFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u models.User, passwordHash string) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, u, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) SaveProgress(ctx context.Context, id string, record models.OnboardingRecord, step int) error {
	if m.SaveProgressFunc != nil {
		return m.SaveProgressFunc(ctx, id, record, step)
	}
	return nil
}

func (m *mockUserRepo) SetStep(ctx context.Context, id string, step int) error {
	if m.SetStepFunc != nil {
		return m.SetStepFunc(ctx, id, step)
	}
	return nil
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) SoftDeleteUser(ctx context.Context, id string) (bool, error) {
	if m.SoftDeleteUserFunc != nil {
		return m.SoftDeleteUserFunc(ctx, id)
	}
	return false, nil
}

func validRegistration() models.Registration {
	return models.Registration{
		Username: "abc",
		Email:    "a@b.com",
		Password: "secret1",
		Age:      25,
	}
}

func TestRegister_Success(t *testing.T) {
	var created models.User
	var hash string
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User, passwordHash string) error {
			created = u
			hash = passwordHash
			return nil
		},
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(user.ID, "backend-user-") {
		t.Errorf("ID = %q; want backend-user- prefix", user.ID)
	}
	if len(user.ID) != len("backend-user-")+8 {
		t.Errorf("ID = %q; want 8-character suffix", user.ID)
	}
	if user.CurrentStep != models.StepRegistration {
		t.Errorf("CurrentStep = %d; want %d", user.CurrentStep, models.StepRegistration)
	}
	if created.Data["email"] != "a@b.com" || created.Data["age"] != 25 {
		t.Errorf("seeded record = %v; want email and age", created.Data)
	}
	if hash == "secret1" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_InvalidAge(t *testing.T) {
	repo := &mockUserRepo{
		EmailTakenFunc: func(ctx context.Context, email string) (bool, error) {
			t.Error("age validation must run before any repository call")
			return false, nil
		},
	}
	svc := NewUserService(repo)

	reg := validRegistration()
	reg.Age = 0
	if _, err := svc.Register(context.Background(), reg); !errors.Is(err, ErrInvalidAge) {
		t.Fatalf("expected ErrInvalidAge, got %v", err)
	}
}

func TestRegister_Underage(t *testing.T) {
	repo := &mockUserRepo{
		EmailTakenFunc: func(ctx context.Context, email string) (bool, error) {
			t.Error("age validation must run before any repository call")
			return false, nil
		},
	}
	svc := NewUserService(repo)

	reg := validRegistration()
	reg.Age = 17
	if _, err := svc.Register(context.Background(), reg); !errors.Is(err, ErrUnderage) {
		t.Fatalf("expected ErrUnderage, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		EmailTakenFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		UsernameTakenFunc: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestProgress_NotFound(t *testing.T) {
	svc := NewUserService(&mockUserRepo{})

	_, err := svc.Progress(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateData_MergesAndAdvances(t *testing.T) {
	var savedRecord models.OnboardingRecord
	var savedStep int
	repo := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{
				ID:          id,
				Data:        models.OnboardingRecord{"email": "a@b.com", "age": 25},
				CurrentStep: 2,
			}, nil
		},
		SaveProgressFunc: func(ctx context.Context, id string, record models.OnboardingRecord, step int) error {
			savedRecord = record
			savedStep = step
			return nil
		},
	}
	svc := NewUserService(repo)

	step := 3
	user, err := svc.UpdateData(context.Background(), "u1",
		models.OnboardingRecord{"aboutMe": "a longer personal blurb"}, &step)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if savedStep != 3 || user.CurrentStep != 3 {
		t.Errorf("step = %d/%d; want 3", savedStep, user.CurrentStep)
	}
	if savedRecord["email"] != "a@b.com" {
		t.Errorf("merge dropped existing key: %v", savedRecord)
	}
	if savedRecord["aboutMe"] != "a longer personal blurb" {
		t.Errorf("merge dropped patch key: %v", savedRecord)
	}
}

func TestUpdateData_StepNeverRegresses(t *testing.T) {
	var savedStep int
	repo := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Data: models.OnboardingRecord{}, CurrentStep: 3}, nil
		},
		SaveProgressFunc: func(ctx context.Context, id string, record models.OnboardingRecord, step int) error {
			savedStep = step
			return nil
		},
	}
	svc := NewUserService(repo)

	step := 2
	user, err := svc.UpdateData(context.Background(), "u1", nil, &step)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if savedStep != 3 || user.CurrentStep != 3 {
		t.Errorf("step = %d/%d; a lower requested step must not regress", savedStep, user.CurrentStep)
	}
}

func TestComplete_SetsTerminalStep(t *testing.T) {
	var setTo int
	repo := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, CurrentStep: 3}, nil
		},
		SetStepFunc: func(ctx context.Context, id string, step int) error {
			setTo = step
			return nil
		},
	}
	svc := NewUserService(repo)

	if err := svc.Complete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setTo != models.StepComplete {
		t.Errorf("step = %d; want %d", setTo, models.StepComplete)
	}
}

func TestComplete_Idempotent(t *testing.T) {
	repo := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, CurrentStep: models.StepComplete}, nil
		},
		SetStepFunc: func(ctx context.Context, id string, step int) error {
			t.Error("completing an already-complete user must not write")
			return nil
		},
	}
	svc := NewUserService(repo)

	if err := svc.Complete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		SoftDeleteUserFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewUserService(repo)

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	deleted := ""
	repo := &mockUserRepo{
		SoftDeleteUserFunc: func(ctx context.Context, id string) (bool, error) {
			deleted = id
			return true, nil
		},
	}
	svc := NewUserService(repo)

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "u1" {
		t.Errorf("deleted = %q; want u1", deleted)
	}
}
