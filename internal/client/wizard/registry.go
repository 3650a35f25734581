// Package wizard implements the onboarding state machine: the field
// registry, step validator, page configuration store, session state, wizard
// controller, and admin configuration editor.
package wizard

// FieldKind enumerates the known field variants. Each kind carries its own
// input prompt and validation rule.
type FieldKind int

const (
	// KindAbsent marks an identifier unknown to the registry. Lookups never
	// fail; they resolve to this variant and callers drop or skip it.
	KindAbsent FieldKind = iota
	// KindText is a single-line free-text input.
	KindText
	// KindLongText is a multi-line input with a minimum length when required.
	KindLongText
	// KindNumber is a numeric input.
	KindNumber
	// KindDate is a date string input.
	KindDate
	// KindAddress is the composite street/city/state/zip input.
	KindAddress
)

// FieldDef describes one known field: its identifier, display label, and
// variant.
type FieldDef struct {
	ID    string
	Label string
	Kind  FieldKind
}

// AddressSubfields lists the components of the composite address field, in
// prompt order. A required address demands every one of them.
var AddressSubfields = []string{"street", "city", "state", "zip"}

// registry is the static catalogue of known fields.
var registry = map[string]FieldDef{
	"email":     {ID: "email", Label: "Email", Kind: KindText},
	"age":       {ID: "age", Label: "Age", Kind: KindNumber},
	"aboutMe":   {ID: "aboutMe", Label: "About Me", Kind: KindLongText},
	"address":   {ID: "address", Label: "Address", Kind: KindAddress},
	"birthdate": {ID: "birthdate", Label: "Birthdate", Kind: KindDate},
}

// LookupField resolves a field identifier. Unknown identifiers return a
// KindAbsent definition and false; they never panic.
func LookupField(id string) (FieldDef, bool) {
	def, ok := registry[id]
	if !ok {
		return FieldDef{ID: id, Kind: KindAbsent}, false
	}
	return def, true
}

// KnownFieldIDs returns every registered identifier in canonical order.
func KnownFieldIDs() []string {
	ids := make([]string, 0, len(registry))
	for _, id := range canonicalOrder {
		if _, ok := registry[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
