package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atinyakov/onboarding/internal/models"
)

// minAboutMeLength is the minimum trimmed length for required long-text
// fields.
const minAboutMeLength = 20

// minPasswordLength is the minimum registration password length.
const minPasswordLength = 6

// minimumAge is the youngest age allowed to onboard. Checked client-side so
// no registration call is ever issued for underage input.
const minimumAge = 18

// UnderageMessage is the business-rule rejection for registrations below the
// minimum age. It is distinct from field validation failures.
const UnderageMessage = "Cannot Onboard You, Please have an adult to register your details."

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrorSet maps field identifiers (or dotted sub-fields such as
// "address.city") to human-readable messages.
type ErrorSet map[string]string

// Empty reports whether the set holds no errors.
func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// ValidateStep checks the current form values against a page's configured
// field list and required flags. It is a pure function: no state, no I/O.
// Identifiers unknown to the registry are ignored so a stale configuration
// entry neither crashes nor blocks progress.
func ValidateStep(fieldIDs []string, required map[string]bool, values models.OnboardingRecord) ErrorSet {
	errs := ErrorSet{}
	for _, id := range fieldIDs {
		def, known := LookupField(id)
		if !known || !required[id] {
			continue
		}
		switch def.Kind {
		case KindLongText:
			text := strings.TrimSpace(stringValue(values[id]))
			if len(text) < minAboutMeLength {
				errs[id] = fmt.Sprintf("%s must be at least %d characters.", def.Label, minAboutMeLength)
			}
		case KindAddress:
			sub, _ := values[id].(map[string]any)
			for _, part := range AddressSubfields {
				if strings.TrimSpace(stringValue(sub[part])) == "" {
					errs[id+"."+part] = fmt.Sprintf("Address %s is required.", part)
				}
			}
		default:
			// Text, number, and date fields require presence only.
			if strings.TrimSpace(stringValue(values[id])) == "" {
				errs[id] = fmt.Sprintf("%s is required.", def.Label)
			}
		}
	}
	return errs
}

// ValidateRegistration checks the fixed registration rule set. The underage
// business rule is separate; see Session.Register.
func ValidateRegistration(reg models.Registration) ErrorSet {
	errs := ErrorSet{}
	if strings.TrimSpace(reg.Username) == "" {
		errs["username"] = "Username is required."
	}
	if !emailPattern.MatchString(reg.Email) {
		errs["email"] = "Enter a valid email address."
	}
	if len(reg.Password) < minPasswordLength {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters.", minPasswordLength)
	}
	if reg.Age < 1 {
		errs["age"] = "Age must be a positive number."
	}
	return errs
}

// stringValue renders a form value for emptiness checks. Numbers count as
// present, nil as absent.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
