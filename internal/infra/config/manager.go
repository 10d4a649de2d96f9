package config

import (
	"os"
	"path/filepath"

	"github.com/runoshun/gitask/internal/domain"
)

// Ensure Manager implements domain.ConfigWriter.
var _ domain.ConfigWriter = (*Manager)(nil)

// Manager manages the configuration file.
type Manager struct {
	path string
}

// NewManager creates a new Manager for path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the configuration file location.
func (m *Manager) Path() string {
	return m.path
}

// InitConfig creates the config file with the default template.
func (m *Manager) InitConfig(force bool) error {
	if !force {
		if _, err := os.Stat(m.path); err == nil {
			return domain.ErrConfigExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return err
	}

	return os.WriteFile(m.path, []byte(domain.ConfigTemplate()), 0o600)
}
