// Package credentials persists the single bearer credential proving an
// authenticated session. The credential survives process restarts but is
// scoped to this machine and user profile.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const fileName = "credentials.json"

// Credential is an opaque bearer token plus its issuing scheme.
type Credential struct {
	Token    string    `json:"token"`
	Scheme   string    `json:"scheme"`
	StoredAt time.Time `json:"storedAt"`
}

// Store is a file-backed holder for at most one credential.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. If dir is empty the platform
// config directory is used.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{dir: dir}, nil
}

// Put writes the credential, replacing any previous one.
func (s *Store) Put(cred Credential) error {
	if cred.Token == "" {
		return fmt.Errorf("refusing to store an empty credential")
	}
	if cred.StoredAt.IsZero() {
		cred.StoredAt = time.Now()
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}
	return os.WriteFile(s.path(), data, 0o600)
}

// Get returns the stored credential, or ok=false when none is held.
// An unreadable or corrupt file counts as no credential.
func (s *Store) Get() (Credential, bool) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return Credential{}, false
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, false
	}
	if cred.Token == "" {
		return Credential{}, false
	}
	return cred, true
}

// Clear removes the stored credential. Idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credential: %w", err)
	}
	return nil
}

// Token implements api.TokenSource over the store.
func (s *Store) Token() (string, bool) {
	cred, ok := s.Get()
	if !ok {
		return "", false
	}
	return cred.Token, true
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path()
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

func defaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critiq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "critiq"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "critiq"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "critiq"), nil
	default:
		return filepath.Join(home, ".config", "critiq"), nil
	}
}
