package pkgblob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
)

// Local keeps objects as files in one directory.
type Local struct {
	dir string
}

// NewLocal creates dir when missing.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("pkgblob: local driver requires a directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("pkgblob: create %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Put writes to a temporary file first so readers never see a partial object.
func (l *Local) Put(_ context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("pkgblob: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("pkgblob: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pkgblob: close %s: %w", key, err)
	}

	if err := os.Rename(tmpName, filepath.Join(l.dir, key)); err != nil {
		return fmt.Errorf("pkgblob: rename %s: %w", key, err)
	}

	return nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pkgblob: open %s: %w", key, err)
	}

	return f, nil
}

func (l *Local) Close() error {
	return nil
}
