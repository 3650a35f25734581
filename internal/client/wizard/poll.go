package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/atinyakov/onboarding/internal/models"
)

// UserList maintains the admin view of collected users, refreshed by
// periodic polling independent of wizard state. Polling only ever replaces
// the user slice; the selection is owned by Select and Delete, so a deletion
// confirmed locally always wins over a concurrent poll.
type UserList struct {
	mu       sync.Mutex
	backend  Backend
	users    []models.User
	selected string
	errMsg   string
}

// NewUserList constructs a UserList over the given backend.
func NewUserList(backend Backend) *UserList {
	return &UserList{backend: backend}
}

// StartPolling refreshes the list at the given interval until ctx is done.
func (l *UserList) StartPolling(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Refresh(ctx)
			}
		}
	}()
}

// Refresh fetches the user list once. A fetch failure keeps the previous
// list and records the error.
func (l *UserList) Refresh(ctx context.Context) {
	users, err := l.backend.ListUsers(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.errMsg = "Could not refresh the user list."
		return
	}
	l.users = users
	l.errMsg = ""
}

// Delete removes a user via the backend. On success the user disappears from
// the local list immediately and, if it was the selected identity, the
// selection is cleared.
func (l *UserList) Delete(ctx context.Context, id string) error {
	if err := l.backend.DeleteUser(ctx, id); err != nil {
		l.mu.Lock()
		l.errMsg = "Could not delete the user."
		l.mu.Unlock()
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.users[:0]
	for _, u := range l.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	l.users = kept
	if l.selected == id {
		l.selected = ""
	}
	l.errMsg = ""
	return nil
}

// Select marks a user as currently selected.
func (l *UserList) Select(id string) {
	l.mu.Lock()
	l.selected = id
	l.mu.Unlock()
}

// Selected returns the currently selected user ID, or "".
func (l *UserList) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Users returns a copy of the current list.
func (l *UserList) Users() []models.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.User(nil), l.users...)
}

// Err returns the most recent polling or deletion error message, or "".
func (l *UserList) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}
