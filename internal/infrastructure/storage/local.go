package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/cursomc/commerce-api/internal/core/ports"
)

var _ ports.ObjectStore = (*LocalStore)(nil)

// LocalStore keeps objects as files below a root directory. The returned
// locator is PublicURL joined with the key, or a file:// URL of the written file.
type LocalStore struct {
	fs        afero.Fs
	root      string
	publicURL string
}

// NewLocalStore roots fs at dir. Pass afero.NewOsFs() in production and
// afero.NewMemMapFs() in tests.
func NewLocalStore(fs afero.Fs, dir, publicURL string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create %s: %w", dir, err)
	}
	return &LocalStore{
		fs:        afero.NewBasePathFs(fs, dir),
		root:      dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *LocalStore) Store(_ context.Context, key string, data []byte, _ string) (string, error) {
	clean := path.Clean("/" + key)
	if dir := path.Dir(clean); dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("local store: create directory for %s: %w", key, err)
		}
	}
	if err := afero.WriteFile(s.fs, clean, data, 0o644); err != nil {
		return "", fmt.Errorf("local store: write %s: %w", key, err)
	}

	if s.publicURL == "" {
		return "file://" + path.Join(s.root, clean), nil
	}
	return s.publicURL + clean, nil
}
