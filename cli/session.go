package cli

import (
	"encoding/json"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
)

// Session is what login and register persist between invocations
type Session struct {
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
}

var errNoSession = errors.New("not logged in, run `socialctl login` first")

// DefaultSessionPath is the session file under the user config directory
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "socialite", "session.json")
}

func loadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading session %s failed", path)
	}
	var s Session
	if err = json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrapf(err, "parsing session %s failed", path)
	}
	return &s, nil
}

func saveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "creating session directory failed")
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session failed")
	}
	return errors.Wrapf(os.WriteFile(path, raw, 0600), "writing session %s failed", path)
}

func removeSession(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return errors.Wrapf(err, "removing session %s failed", path)
}
