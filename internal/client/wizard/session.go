package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/onboarding/internal/client/api"
	"github.com/atinyakov/onboarding/internal/models"
)

// Sentinel errors returned by session and controller operations.
var (
	// ErrBusy rejects an operation while another one is in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrValidation signals client-side validation failures; details are in
	// ValidationErrors.
	ErrValidation = errors.New("validation failed")
	// ErrUnderage is the business-rule stop for registrations below the
	// minimum age. No network call is made.
	ErrUnderage = errors.New(UnderageMessage)
)

// Session is the single source of truth for one onboarding session:
// identity, accumulated record, step position, and loading/error status.
// All mutation goes through its methods; there is no ambient global state.
type Session struct {
	mu      sync.Mutex
	backend Backend
	idFile  *IdentityFile

	identity string
	record   models.OnboardingRecord
	step     int
	loading  bool
	errMsg   string
	valErrs  ErrorSet
}

// NewSession constructs a fresh Session at step 1.
func NewSession(backend Backend, idFile *IdentityFile) *Session {
	return &Session{
		backend: backend,
		idFile:  idFile,
		record:  models.OnboardingRecord{},
		step:    models.StepRegistration,
		valErrs: ErrorSet{},
	}
}

// Initialize attempts to resume a previously stored identity. A stored
// identity the backend no longer knows is discarded silently. Any other
// fetch failure surfaces an error but still resets to a fresh session, so
// the UI is never blocked.
func (s *Session) Initialize(ctx context.Context) {
	stored, err := s.idFile.Load()
	if err != nil || stored == "" {
		return
	}

	s.setLoading(true)
	user, err := s.backend.FetchProgress(ctx, stored)
	if errors.Is(err, api.ErrNotFound) {
		// Stale identity: recover silently.
		_ = s.idFile.Clear()
		s.resetLocked("")
		return
	}
	if err != nil {
		s.resetLocked("Could not restore your session. Starting fresh.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = user.ID
	s.record = user.Data.Clone()
	s.step = clampStep(user.CurrentStep)
	s.loading = false
	s.errMsg = ""
}

// Register submits the registration fields. Field validation and the
// underage business rule run client-side first; no network call is issued
// unless both pass. On success the identity is persisted, the record is
// seeded, and the position advances to the first data page.
func (s *Session) Register(ctx context.Context, reg models.Registration) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	if errs := ValidateRegistration(reg); !errs.Empty() {
		s.valErrs = errs
		s.mu.Unlock()
		return ErrValidation
	}
	if reg.Age < minimumAge {
		s.valErrs = ErrorSet{}
		s.errMsg = UnderageMessage
		s.mu.Unlock()
		return ErrUnderage
	}
	s.valErrs = ErrorSet{}
	s.errMsg = ""
	s.loading = true
	s.mu.Unlock()

	res, err := s.backend.Register(ctx, reg)
	if err != nil {
		s.failOperation(err)
		return err
	}

	record := res.Record.Clone()
	record["username"] = res.Username

	s.mu.Lock()
	s.identity = res.UserID
	s.record = record
	s.step = models.FirstDataStep
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	_ = s.idFile.Save(res.UserID)
	return nil
}

// Reset clears the session to a fresh state at step 1. Client-local only:
// server-side data is untouched.
func (s *Session) Reset() {
	_ = s.idFile.Clear()
	s.resetLocked("")
}

// Identity returns the backend-assigned user ID, or "" before registration.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Step returns the current wizard position.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Record returns a copy of the accumulated onboarding record.
func (s *Session) Record() models.OnboardingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Loading reports whether an operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current session-level error message, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ValidationErrors returns the current field-level validation failures.
func (s *Session) ValidationErrors() ErrorSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(ErrorSet, len(s.valErrs))
	for k, v := range s.valErrs {
		out[k] = v
	}
	return out
}

// failOperation records an operation failure: the error message is set and
// the loading flag cleared together, so the UI never sees both at once.
func (s *Session) failOperation(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		// Server-reported domain error: shown verbatim.
		s.errMsg = apiErr.Message
		return
	}
	s.errMsg = "The onboarding service is unavailable. Please try again."
}

func (s *Session) resetLocked(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = ""
	s.record = models.OnboardingRecord{}
	s.step = models.StepRegistration
	s.loading = false
	s.errMsg = errMsg
	s.valErrs = ErrorSet{}
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func clampStep(step int) int {
	if step < models.StepRegistration {
		return models.StepRegistration
	}
	if step > models.StepComplete {
		return models.StepComplete
	}
	return step
}
