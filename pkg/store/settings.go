package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
	BackendMemory Backend = "memory"
)

type Settings struct {
	Backend Backend `yaml:"backend,omitempty"`
	// Path is the file (or database) holding the slot. Empty selects a file in
	// the user config directory.
	Path string `yaml:"path,omitempty"`
	Slot string `yaml:"slot,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Backend: BackendFile,
		Slot:    DefaultSlot,
	}
}

// DefaultPath returns where a backend keeps its data when no path is configured.
func DefaultPath(backend Backend, slot string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", errors.Wrap(err, "could not determine config directory")
		}
		dir = filepath.Join(homeDir, ".config")
	}
	if slot == "" {
		slot = DefaultSlot
	}
	base := filepath.Join(dir, "teamchat")
	switch backend {
	case BackendSQLite:
		return filepath.Join(base, "teamchat.db"), nil
	case BackendBolt:
		return filepath.Join(base, "teamchat.bolt"), nil
	case BackendFile, "":
		return filepath.Join(base, slot+".json"), nil
	case BackendMemory:
		return "", nil
	default:
		return "", errors.Errorf("unknown store backend %q", backend)
	}
}

// OpenMedium creates the medium selected by the settings.
func OpenMedium(s *Settings) (Medium, error) {
	if s == nil {
		s = NewSettings()
	}
	slot := s.Slot
	if slot == "" {
		slot = DefaultSlot
	}
	path := s.Path
	if path == "" {
		var err error
		path, err = DefaultPath(s.Backend, slot)
		if err != nil {
			return nil, err
		}
	}

	switch s.Backend {
	case BackendFile, "":
		return NewFileMedium(path)
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "could not create store directory")
		}
		dsn, err := SQLiteDSNForFile(path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteMedium(dsn, slot)
	case BackendBolt:
		return NewBoltMedium(path, slot)
	case BackendMemory:
		return NewMemoryMedium(), nil
	default:
		return nil, errors.Errorf("unknown store backend %q", s.Backend)
	}
}
