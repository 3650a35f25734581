package wizard

import (
	"encoding/json"
	"os"
)

// IdentityFile persists the backend-assigned user identity between client
// runs so a session can resume.
type IdentityFile struct {
	// Path is the JSON file location.
	Path string
}

type identityPayload struct {
	UserID string `json:"userId"`
}

// Load returns the stored identity, or "" when none is stored.
func (f *IdentityFile) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var p identityPayload
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt file is treated as no stored identity.
		return "", nil
	}
	return p.UserID, nil
}

// Save stores the identity.
func (f *IdentityFile) Save(userID string) error {
	data, err := json.Marshal(identityPayload{UserID: userID})
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the stored identity. A missing file is not an error.
func (f *IdentityFile) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
