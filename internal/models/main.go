// Package models defines the core data structures shared by the onboarding
// backend and the wizard client.
package models

// Wizard step positions. Step 1 is the fixed registration page, steps 2..3
// are the administrator-configurable data pages, and StepComplete is the
// terminal state.
const (
	StepRegistration = 1
	FirstDataStep    = 2
	LastDataStep     = 3
	StepComplete     = 4
)

// OnboardingRecord is the accumulated user-submitted data across completed
// steps. Values are either scalars (string, number) or a nested map for
// composite fields such as address.
type OnboardingRecord map[string]any

// Clone returns a shallow copy of the record. Nested maps are copied one
// level deep so callers can mutate sub-maps without aliasing.
func (r OnboardingRecord) Clone() OnboardingRecord {
	if r == nil {
		return OnboardingRecord{}
	}
	out := make(OnboardingRecord, len(r))
	for k, v := range r {
		if m, ok := v.(map[string]any); ok {
			sub := make(map[string]any, len(m))
			for sk, sv := range m {
				sub[sk] = sv
			}
			out[k] = sub
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a new record containing all keys of r overlaid with all keys
// of patch. Existing keys are never removed, only updated.
func (r OnboardingRecord) Merge(patch OnboardingRecord) OnboardingRecord {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// User represents a registered user as exposed over the wire. Password
// material is never part of this structure.
type User struct {
	// ID is the backend-assigned opaque identifier.
	ID string `json:"id"`
	// Username is the login name chosen at registration.
	Username string `json:"username"`
	// Email is the registration email address.
	Email string `json:"email"`
	// Age is the age submitted at registration.
	Age int `json:"age"`
	// Data is the accumulated onboarding record.
	Data OnboardingRecord `json:"onboardingData"`
	// CurrentStep is the wizard position, 1..StepComplete.
	CurrentStep int `json:"currentStep"`
	// CreatedAt is the registration timestamp in RFC 3339 form.
	CreatedAt string `json:"createdAt"`
}

// Registration is the payload submitted when creating a new user.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// RegisterResult is the backend's answer to a successful registration.
type RegisterResult struct {
	UserID      string           `json:"userId"`
	Username    string           `json:"username"`
	Record      OnboardingRecord `json:"onboardingData"`
	CurrentStep int              `json:"currentStep"`
}

// PageConfig is the administrator-controlled assignment of field identifiers
// to wizard pages. Page1 mirrors the fixed registration page and is passed
// through saves untouched; pages 2 and 3 are editable.
type PageConfig struct {
	Page1 []string `json:"page1"`
	Page2 []string `json:"page2"`
	Page3 []string `json:"page3"`
	// RequiredFields marks which identifiers are required at validation
	// time. A field absent from this map is optional.
	RequiredFields map[string]bool `json:"requiredFields"`
}

// EditablePages lists the page numbers the admin editor may change.
var EditablePages = []int{2, 3}

// Fields returns the identifier list for the given page number, or nil for
// an unknown page.
func (c *PageConfig) Fields(page int) []string {
	switch page {
	case 1:
		return c.Page1
	case 2:
		return c.Page2
	case 3:
		return c.Page3
	}
	return nil
}

// SetFields replaces the identifier list for the given page number.
// Unknown page numbers are ignored.
func (c *PageConfig) SetFields(page int, ids []string) {
	switch page {
	case 1:
		c.Page1 = ids
	case 2:
		c.Page2 = ids
	case 3:
		c.Page3 = ids
	}
}

// Clone returns a deep copy of the configuration.
func (c *PageConfig) Clone() *PageConfig {
	if c == nil {
		return nil
	}
	out := &PageConfig{
		Page1:          append([]string(nil), c.Page1...),
		Page2:          append([]string(nil), c.Page2...),
		Page3:          append([]string(nil), c.Page3...),
		RequiredFields: make(map[string]bool, len(c.RequiredFields)),
	}
	for k, v := range c.RequiredFields {
		out.RequiredFields[k] = v
	}
	return out
}

// DefaultPageConfig is the configuration seeded on first startup.
func DefaultPageConfig() *PageConfig {
	return &PageConfig{
		Page1: []string{"email", "age"},
		Page2: []string{"aboutMe", "address"},
		Page3: []string{"birthdate"},
		RequiredFields: map[string]bool{
			"aboutMe":   true,
			"address":   true,
			"birthdate": true,
		},
	}
}
