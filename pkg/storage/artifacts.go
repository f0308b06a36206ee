package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Davincible/galois/pkg/tables"
)

const (
	DirPermissions  = 0700
	FilePermissions = 0600

	digestSuffix = ".b2sum"
)

var (
	ErrDigestMismatch = errors.New("storage: artifact digest mismatch")
	ErrInvalidName    = errors.New("storage: invalid artifact name")
)

// ArtifactStore keeps rendered tables in a directory, each next to a
// BLAKE2b-256 sidecar in b2sum format.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{
		dir: dir,
	}
}

func (s *ArtifactStore) Dir() string { return s.dir }

func (s *ArtifactStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes data under name and returns the file path and its digest.
func (s *ArtifactStore) Save(name string, data []byte) (string, string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(s.dir, DirPermissions); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	digest := tables.Digest(data)
	sidecar := fmt.Sprintf("%s  %s\n", digest, name)
	if err := os.WriteFile(path+digestSuffix, []byte(sidecar), FilePermissions); err != nil {
		return "", "", fmt.Errorf("failed to write digest: %w", err)
	}

	slog.Debug("Saved artifact", "path", path, "bytes", len(data), "blake2b", digest)
	return path, digest, nil
}

// Load reads name back and checks it against its sidecar digest.
func (s *ArtifactStore) Load(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	sidecar, err := os.ReadFile(path + digestSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read digest: %w", err)
	}

	fields := strings.Fields(string(sidecar))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty digest file for %s", ErrDigestMismatch, name)
	}
	if got := tables.Digest(data); got != fields[0] {
		return nil, fmt.Errorf("%w: %s has %s, recorded %s", ErrDigestMismatch, name, got, fields[0])
	}

	return data, nil
}

func (s *ArtifactStore) Exists(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the artifact and its sidecar. Missing files are not an error.
func (s *ArtifactStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	for _, p := range []string{path, path + digestSuffix} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
