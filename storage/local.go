package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/qrmenu/services"
)

// Local writes images into a directory on disk.
type Local struct {
	dir string
	now func() time.Time
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir, now: time.Now}, nil
}

func (l *Local) Save(_ context.Context, img *services.Image) (string, error) {
	name := FileName(l.now(), img.Filename)

	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		// same name uploaded within the same second
		name = FileName(l.now(), uuid.NewString()[:8]+"_"+img.Filename)
		f, err = os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, img.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	return RefPrefix + name, nil
}

func (l *Local) Delete(_ context.Context, ref string) error {
	name, err := fileFromRef(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}

// Open returns the stored image for serving.
func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	name, err := fileFromRef(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", name, err)
	}
	return f, nil
}
