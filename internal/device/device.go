// Package device manages the persistent installation id. The id is
// generated once per install and sent with API requests so the backend
// can tell devices apart without any platform fingerprinting.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ID returns the installation id stored at path, generating and
// persisting a new one on first use.
func ID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("create device id dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}
