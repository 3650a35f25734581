// Package service provides business logic for registration, onboarding
// progress, and admin configuration, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/onboarding/internal/models"
)

// Domain errors surfaced to handlers. Messages reach the client verbatim.
var (
	// ErrInvalidAge rejects non-positive ages.
	ErrInvalidAge = errors.New("Invalid age provided.")
	// ErrUnderage rejects registrations below the minimum age.
	ErrUnderage = errors.New("Cannot Onboard You, Please have an adult to register your details.")
	// ErrEmailTaken rejects duplicate email registrations.
	ErrEmailTaken = errors.New("User with this email already exists.")
	// ErrUsernameTaken rejects duplicate username registrations.
	ErrUsernameTaken = errors.New("User with this username already exists.")
	// ErrUserNotFound signals an unknown or deleted user ID.
	ErrUserNotFound = errors.New("User not found.")
)

// minimumAge is the youngest age allowed to onboard.
const minimumAge = 18

// UserRepository defines the persistence operations required by the
// user service.
type UserRepository interface {
	// EmailTaken reports whether a live user with the given email exists.
	EmailTaken(ctx context.Context, email string) (bool, error)
	// UsernameTaken reports whether a live user with the given username exists.
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// CreateUser inserts a new user row with the given password hash.
	CreateUser(ctx context.Context, u models.User, passwordHash string) error
	// GetUser fetches a live user by ID; sql.ErrNoRows when absent.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// SaveProgress stores the full onboarding record and step.
	SaveProgress(ctx context.Context, id string, record models.OnboardingRecord, step int) error
	// SetStep updates only the current step.
	SetStep(ctx context.Context, id string, step int) error
	// ListUsers returns all live users.
	ListUsers(ctx context.Context) ([]models.User, error)
	// SoftDeleteUser marks a user deleted; false when absent.
	SoftDeleteUser(ctx context.Context, id string) (bool, error)
}

// UserService implements registration and onboarding progress logic.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a UserService using the provided repository.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user. The onboarding record is seeded with the
// email and age, the step starts at 1, and the password is stored only as a
// bcrypt hash.
func (s *UserService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if reg.Age < 1 {
		return nil, ErrInvalidAge
	}
	if reg.Age < minimumAge {
		return nil, ErrUnderage
	}

	taken, err := s.repo.EmailTaken(ctx, reg.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	taken, err = s.repo.UsernameTaken(ctx, reg.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:       "backend-user-" + uuid.NewString()[:8],
		Username: reg.Username,
		Email:    reg.Email,
		Age:      reg.Age,
		Data: models.OnboardingRecord{
			"email": reg.Email,
			"age":   reg.Age,
		},
		CurrentStep: models.StepRegistration,
	}
	if err := s.repo.CreateUser(ctx, user, string(hash)); err != nil {
		return nil, err
	}
	return &user, nil
}

// Progress returns a user's current record and step.
func (s *UserService) Progress(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateData merges the patch into the user's onboarding record and moves
// the step forward. The step never regresses server-side: the stored value
// is the max of the current and requested steps.
func (s *UserService) UpdateData(ctx context.Context, id string, patch models.OnboardingRecord, step *int) (*models.User, error) {
	user, err := s.Progress(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch != nil {
		user.Data = user.Data.Merge(patch)
	}
	if step != nil && *step > user.CurrentStep {
		user.CurrentStep = *step
	}

	if err := s.repo.SaveProgress(ctx, id, user.Data, user.CurrentStep); err != nil {
		return nil, err
	}
	return user, nil
}

// Complete pins the user's step at the terminal state. Calling it for an
// already-complete user is a no-op, so the operation is idempotent.
func (s *UserService) Complete(ctx context.Context, id string) error {
	user, err := s.Progress(ctx, id)
	if err != nil {
		return err
	}
	if user.CurrentStep == models.StepComplete {
		return nil
	}
	return s.repo.SetStep(ctx, id, models.StepComplete)
}

// List returns all registered users without password material.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.SoftDeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
