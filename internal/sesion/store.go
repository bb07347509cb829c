package sesion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"evidencias/internal/model"

	"gopkg.in/yaml.v3"
)

// Sesion is the identity kept between CLI invocations.
type Sesion struct {
	ID       uint      `yaml:"id"`
	Username string    `yaml:"username"`
	Rol      model.Rol `yaml:"rol"`
	Token    string    `yaml:"token"`
}

// FileStore persists a Sesion as YAML readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// DefaultPath is <user config dir>/evidencias/sesion.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "evidencias", "sesion.yaml"), nil
}

func (s *FileStore) Path() string { return s.path }

// Load returns nil, nil when no session was saved.
func (s *FileStore) Load() (*Sesion, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ses Sesion
	if err := yaml.Unmarshal(b, &ses); err != nil {
		return nil, fmt.Errorf("sesion: archivo corrupto %s: %w", s.path, err)
	}
	if ses.Token == "" {
		return nil, nil
	}
	return &ses, nil
}

func (s *FileStore) Save(ses *Sesion) error {
	b, err := yaml.Marshal(ses)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return atomicWriteFile(s.path, b, 0o600)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// atomicWriteFile never leaves a half-written session behind.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
