package myhours

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session is the authenticated credential bundle for the current user.
// Either all three credential fields are set or the session is blank;
// there is no partially authenticated state.
type Session struct {
	Email        string    `json:"email,omitempty"`
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// LoggedIn reports whether an access token is present. Expiry is not
// checked here; it is resolved lazily on the next remote call.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// Expired reports whether the stored expiry has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
}

// DefaultSessionPath returns the path of the stored session file.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hoursheet", "auth", "session.json"), nil
}

// FileSessionStore stores the session as JSON on disk.
type FileSessionStore struct {
	Path string
}

// Load reads the stored session. A missing file yields a blank session.
func (f *FileSessionStore) Load() (Session, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("corrupt session file (delete %s to log in again): %w", f.Path, err)
	}
	return s, nil
}

// Save atomically writes the session to disk.
func (f *FileSessionStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	tmpPath := f.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}
