package wizard

import (
	"context"
	"errors"

	"github.com/atinyakov/onboarding/internal/models"
)

// fakeBackend implements Backend for testing. Unset funcs fail the call so
// tests notice unexpected network activity.
type fakeBackend struct {
	RegisterFunc      func(ctx context.Context, reg models.Registration) (*models.RegisterResult, error)
	FetchProgressFunc func(ctx context.Context, id string) (*models.User, error)
	UpdateDataFunc    func(ctx context.Context, id string, patch models.OnboardingRecord, step int) (*models.User, error)
	CompleteFunc      func(ctx context.Context, id string) error
	FetchConfigFunc   func(ctx context.Context) (*models.PageConfig, error)
	SaveConfigFunc    func(ctx context.Context, cfg models.PageConfig) (*models.PageConfig, error)
	ListUsersFunc     func(ctx context.Context) ([]models.User, error)
	DeleteUserFunc    func(ctx context.Context, id string) error
}

var errUnexpectedCall = errors.New("unexpected backend call")

func (f *fakeBackend) Register(ctx context.Context, reg models.Registration) (*models.RegisterResult, error) {
	if f.RegisterFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.RegisterFunc(ctx, reg)
}

func (f *fakeBackend) FetchProgress(ctx context.Context, id string) (*models.User, error) {
	if f.FetchProgressFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.FetchProgressFunc(ctx, id)
}

func (f *fakeBackend) UpdateData(ctx context.Context, id string, patch models.OnboardingRecord, step int) (*models.User, error) {
	if f.UpdateDataFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.UpdateDataFunc(ctx, id, patch, step)
}

func (f *fakeBackend) Complete(ctx context.Context, id string) error {
	if f.CompleteFunc == nil {
		return errUnexpectedCall
	}
	return f.CompleteFunc(ctx, id)
}

func (f *fakeBackend) FetchConfig(ctx context.Context) (*models.PageConfig, error) {
	if f.FetchConfigFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.FetchConfigFunc(ctx)
}

func (f *fakeBackend) SaveConfig(ctx context.Context, cfg models.PageConfig) (*models.PageConfig, error) {
	if f.SaveConfigFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.SaveConfigFunc(ctx, cfg)
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.ListUsersFunc == nil {
		return nil, errUnexpectedCall
	}
	return f.ListUsersFunc(ctx)
}

func (f *fakeBackend) DeleteUser(ctx context.Context, id string) error {
	if f.DeleteUserFunc == nil {
		return errUnexpectedCall
	}
	return f.DeleteUserFunc(ctx, id)
}
