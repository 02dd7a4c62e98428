// Package assets validates, stores and retires product images. The Store
// works against a Backend (local directory or S3) and hands out references
// of the form "/uploads/<key>".
package assets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Backend persists opaque blobs by key. Delete must succeed when the key does
// not exist.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	backend Backend
	logger  logging.Logger
}

func NewStore(b Backend, l logging.Logger) *Store {
	return &Store{backend: b, logger: l.With("module", "assets")}
}

// Backend exposes the underlying backend so the HTTP layer can serve assets.
func (s *Store) Backend() Backend {
	return s.backend
}

// Store validates the upload and persists it, returning its reference.
func (s *Store) Store(ctx context.Context, u *models.Upload) (string, error) {
	if u == nil {
		return "", fmt.Errorf("%w: image is required", common.ErrValidation)
	}
	if err := Validate(u.Data, u.ContentType, u.FileName); err != nil {
		return "", err
	}

	key, err := NewKey(u.FileName)
	if err != nil {
		return "", fmt.Errorf("%w: key generation: %v", common.ErrStorage, err)
	}

	if err := s.backend.Put(ctx, key, u.Data, u.ContentType); err != nil {
		return "", fmt.Errorf("%w: put %s: %v", common.ErrStorage, key, err)
	}

	s.logger.Debug(ctx, "asset stored", "key", key, "size", len(u.Data))
	return RefForKey(key), nil
}

// Delete retires the asset behind ref. Deleting an asset that is already gone
// succeeds; references this store did not issue are ignored.
func (s *Store) Delete(ctx context.Context, ref string) error {
	key, ok := KeyFromRef(ref)
	if !ok {
		s.logger.Warn(ctx, "ignoring foreign asset reference", "ref", ref)
		return nil
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrStorage, key, err)
	}
	s.logger.Debug(ctx, "asset deleted", "key", key)
	return nil
}
