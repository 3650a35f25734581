package wizard

import (
	"context"
	"errors"

	"github.com/atinyakov/onboarding/internal/models"
)

// Controller errors.
var (
	// ErrUseRegister rejects Advance from the registration step, which has
	// its own operation.
	ErrUseRegister = errors.New("registration step advances via Register")
	// ErrConfigUnavailable blocks progress while the page configuration has
	// not been loaded.
	ErrConfigUnavailable = errors.New("page configuration not yet available")
)

// Controller drives the wizard state machine over a Session. Step
// transitions are strictly sequential: the session's loading flag serializes
// them, and a transition requested while one is in flight is rejected.
type Controller struct {
	session *Session
	config  *ConfigStore
}

// NewController constructs a Controller for the given session and
// configuration store.
func NewController(session *Session, config *ConfigStore) *Controller {
	return &Controller{session: session, config: config}
}

// Advance validates pending against the current page's configuration and,
// on success, persists it before the position changes. Advancing is gated on
// confirmed persistence: a failed write leaves the position untouched.
// Reaching the final data page additionally issues the completion signal.
// Advance at the terminal step is a no-op, so completion is idempotent.
func (c *Controller) Advance(ctx context.Context, pending models.OnboardingRecord) error {
	s := c.session

	s.mu.Lock()
	switch {
	case s.loading:
		s.mu.Unlock()
		return ErrBusy
	case s.step == models.StepComplete:
		s.mu.Unlock()
		return nil
	case s.step == models.StepRegistration:
		s.mu.Unlock()
		return ErrUseRegister
	}
	step := s.step
	identity := s.identity
	s.mu.Unlock()

	if !c.config.Loaded() {
		s.mu.Lock()
		s.errMsg = "Configuration is not yet available."
		s.mu.Unlock()
		return ErrConfigUnavailable
	}

	errs := ValidateStep(c.config.FieldIDsForPage(step), c.config.RequiredFlags(), pending)
	s.mu.Lock()
	s.valErrs = errs
	if !errs.Empty() {
		s.mu.Unlock()
		return ErrValidation
	}
	s.errMsg = ""
	s.loading = true
	s.mu.Unlock()

	if step < models.LastDataStep {
		user, err := s.backend.UpdateData(ctx, identity, pending, step+1)
		if err != nil {
			s.failOperation(err)
			return err
		}
		s.commit(user.Data, clampStep(user.CurrentStep))
		return nil
	}

	// Final data page: persist its data, then issue the distinct completion
	// signal. The position moves to the terminal state only after the
	// completion call is confirmed.
	user, err := s.backend.UpdateData(ctx, identity, pending, step)
	if err != nil {
		s.failOperation(err)
		return err
	}
	if err := s.backend.Complete(ctx, identity); err != nil {
		s.failOperation(err)
		return err
	}
	s.commit(user.Data, models.StepComplete)
	return nil
}

// Retreat moves one step back. Purely local: no validation, no persistence.
// The floor is step 1, and page-level validation errors are cleared.
func (c *Controller) Retreat() error {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrBusy
	}
	if s.step > models.StepRegistration {
		s.step--
	}
	s.valErrs = ErrorSet{}
	s.errMsg = ""
	return nil
}

// commit applies a server-confirmed record and position.
func (s *Session) commit(record models.OnboardingRecord, step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record.Clone()
	s.step = step
	s.loading = false
	s.errMsg = ""
	s.valErrs = ErrorSet{}
}
