package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/atinyakov/onboarding/internal/models"
)

// ErrNoDraft signals that the editor was created before the configuration
// loaded.
var ErrNoDraft = errors.New("configuration not loaded; nothing to edit")

// canonicalPage is the page whose field list keeps a fixed canonical
// ordering after every toggle.
const canonicalPage = 2

// canonicalOrder is the priority list for the canonical page. Identifiers
// not listed here sort after the known ones, keeping their relative order.
var canonicalOrder = []string{"aboutMe", "address", "birthdate", "email", "age"}

// AdminEditor holds a local draft of the page configuration. Edits are
// provisional until Commit sends them through the store's save.
type AdminEditor struct {
	store   *ConfigStore
	draft   *models.PageConfig
	message string
}

// NewAdminEditor constructs an editor whose draft copies the store's
// current configuration. Returns ErrNoDraft when no configuration has been
// loaded yet.
func NewAdminEditor(store *ConfigStore) (*AdminEditor, error) {
	cfg := store.Config()
	if cfg == nil {
		return nil, ErrNoDraft
	}
	return &AdminEditor{store: store, draft: cfg}, nil
}

// ToggleField adds or removes a field identifier on an editable page — set
// semantics, so toggling twice is a no-op. A toggle that would leave the
// page empty is rejected and the draft reverts; the rejection message is
// available via Message. The canonical page is re-sorted after every toggle.
func (e *AdminEditor) ToggleField(page int, fieldID string) bool {
	e.message = ""
	if !isEditable(page) {
		e.message = fmt.Sprintf("Page %d is not configurable.", page)
		return false
	}

	fields := e.draft.Fields(page)
	idx := -1
	for i, id := range fields {
		if id == fieldID {
			idx = i
			break
		}
	}

	var next []string
	if idx >= 0 {
		if len(fields) == 1 {
			e.message = fmt.Sprintf("Page %d must keep at least one field.", page)
			return false
		}
		next = append(next, fields[:idx]...)
		next = append(next, fields[idx+1:]...)
	} else {
		next = append(append(next, fields...), fieldID)
	}

	if page == canonicalPage {
		sortCanonical(next)
	}
	e.draft.SetFields(page, next)
	return true
}

// SetRequired marks a field required or optional in the draft.
func (e *AdminEditor) SetRequired(fieldID string, required bool) {
	if e.draft.RequiredFields == nil {
		e.draft.RequiredFields = map[string]bool{}
	}
	if required {
		e.draft.RequiredFields[fieldID] = true
		return
	}
	delete(e.draft.RequiredFields, fieldID)
}

// Commit sends the whole draft, including the non-editable first page
// untouched, through the store's save. On success the draft is refreshed
// from the server-confirmed configuration.
func (e *AdminEditor) Commit(ctx context.Context) error {
	if err := e.store.Save(ctx, *e.draft); err != nil {
		return err
	}
	e.draft = e.store.Config()
	e.message = ""
	return nil
}

// Draft returns a copy of the current draft.
func (e *AdminEditor) Draft() models.PageConfig {
	return *e.draft.Clone()
}

// Message returns the most recent constraint-violation message, or "".
func (e *AdminEditor) Message() string {
	return e.message
}

func isEditable(page int) bool {
	for _, p := range models.EditablePages {
		if p == page {
			return true
		}
	}
	return false
}

// sortCanonical stable-sorts ids by their position in canonicalOrder.
// Unknown identifiers sort after known ones.
func sortCanonical(ids []string) {
	rank := func(id string) int {
		for i, known := range canonicalOrder {
			if id == known {
				return i
			}
		}
		return len(canonicalOrder)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return rank(ids[i]) < rank(ids[j])
	})
}
