package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/onboarding/internal/models"
)

func TestUserList_Refresh(t *testing.T) {
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}
	list := NewUserList(backend)

	list.Refresh(context.Background())

	assert.Len(t, list.Users(), 2)
	assert.Empty(t, list.Err())
}

func TestUserList_RefreshFailureKeepsList(t *testing.T) {
	fail := false
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			if fail {
				return nil, errors.New("transport error")
			}
			return []models.User{{ID: "u1"}}, nil
		},
	}
	list := NewUserList(backend)
	list.Refresh(context.Background())

	fail = true
	list.Refresh(context.Background())

	assert.Len(t, list.Users(), 1, "a failed poll keeps the previous list")
	assert.NotEmpty(t, list.Err())
}

func TestUserList_DeleteClearsSelection(t *testing.T) {
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
		DeleteUserFunc: func(ctx context.Context, id string) error {
			return nil
		},
	}
	list := NewUserList(backend)
	list.Refresh(context.Background())
	list.Select("u1")

	require.NoError(t, list.Delete(context.Background(), "u1"))

	assert.Empty(t, list.Selected(), "delete must clear the selected identity")
	users := list.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].ID)
}

func TestUserList_DeleteOtherKeepsSelection(t *testing.T) {
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
		DeleteUserFunc: func(ctx context.Context, id string) error {
			return nil
		},
	}
	list := NewUserList(backend)
	list.Refresh(context.Background())
	list.Select("u1")

	require.NoError(t, list.Delete(context.Background(), "u2"))
	assert.Equal(t, "u1", list.Selected())
}

func TestUserList_DeleteFailure(t *testing.T) {
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: "u1"}}, nil
		},
		DeleteUserFunc: func(ctx context.Context, id string) error {
			return errors.New("delete rejected")
		},
	}
	list := NewUserList(backend)
	list.Refresh(context.Background())
	list.Select("u1")

	err := list.Delete(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, "u1", list.Selected(), "failed delete keeps the selection")
	assert.Len(t, list.Users(), 1)
}

func TestUserList_StartPolling(t *testing.T) {
	calls := make(chan struct{}, 8)
	backend := &fakeBackend{
		ListUsersFunc: func(ctx context.Context) ([]models.User, error) {
			calls <- struct{}{}
			return []models.User{{ID: "u1"}}, nil
		},
	}
	list := NewUserList(backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	list.StartPolling(ctx, 10*time.Millisecond)

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("expected the poller to refresh the list")
	}
	cancel()
}
