package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/storefront/internal/filex"
)

// LocalBackend keeps assets as files in one directory.
type LocalBackend struct {
	dir string
}

// NewLocalBackend creates dir if needed.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalBackend{dir: abs}, nil
}

// Dir is the absolute directory served at URLPrefix.
func (b *LocalBackend) Dir() string {
	return b.dir
}

func (b *LocalBackend) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, key), nil
}

func (b *LocalBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	return filex.WriteNew(p, data)
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	return filex.RemoveIfExists(p)
}
