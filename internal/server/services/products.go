package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// AssetStore persists product images and retires them.
type AssetStore interface {
	Store(ctx context.Context, u *models.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ProductService keeps product records and their images consistent. A new
// image is stored before the record that points at it is written, and an
// image that is no longer referenced is removed only after the record change
// has been committed. Cleanup failures leave an orphaned file behind and are
// logged, never reported to the caller.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	assets      AssetStore
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, a AssetStore, logger logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		assets:      a,
		logger:      logger.With("module", "products"),
	}
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

// Create validates fields, stores the image and inserts the record. If the
// insert fails the freshly stored image is removed again.
func (s *ProductService) Create(ctx context.Context, f models.ProductFields, upload *models.Upload) (*models.Product, error) {
	if f.Name == nil || f.Description == nil || f.Price == nil {
		return nil, fmt.Errorf("%w: name, description and price are required", common.ErrValidation)
	}
	if err := validateFields(f); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, fmt.Errorf("%w: image is required", common.ErrValidation)
	}

	ref, err := s.assets.Store(ctx, upload)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(*f.Name),
		Description: *f.Description,
		Price:       *f.Price,
		Image:       ref,
	}

	p, err = s.repomanager.Products(s.db).Create(ctx, p)
	if err != nil {
		s.discard(ctx, ref, "create failed")
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	s.logger.Info(ctx, "product created", "id", p.ID, "image", p.Image)
	return p, nil
}

// Update applies the provided fields and, when upload is set, swaps the
// image. The new image is stored before the transaction so no network write
// happens under the row lock. The row stays locked from read to commit, so
// concurrent updates of one product are serialized and each retires exactly
// the image it replaced.
func (s *ProductService) Update(ctx context.Context, id string, f models.ProductFields, upload *models.Upload) (*models.Product, error) {
	if err := validateFields(f); err != nil {
		return nil, err
	}

	var newImage string
	if upload != nil {
		ref, err := s.assets.Store(ctx, upload)
		if err != nil {
			return nil, err
		}
		newImage = ref
	}

	var (
		updated  *models.Product
		oldImage string
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if f.Name != nil {
			p.Name = strings.TrimSpace(*f.Name)
		}
		if f.Description != nil {
			p.Description = *f.Description
		}
		if f.Price != nil {
			p.Price = *f.Price
		}
		if newImage != "" {
			oldImage, p.Image = p.Image, newImage
		}

		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})

	if err != nil {
		if newImage != "" {
			s.discard(ctx, newImage, "update failed")
		}
		return nil, err
	}

	if oldImage != "" && oldImage != newImage {
		s.discard(ctx, oldImage, "replaced")
	}

	s.logger.Info(ctx, "product updated", "id", updated.ID, "image_replaced", newImage != "")
	return updated, nil
}

// Delete removes the record, then its image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.repomanager.Products(s.db).Delete(ctx, id)
	if err != nil {
		return err
	}

	s.discard(ctx, p.Image, "product deleted")
	s.logger.Info(ctx, "product deleted", "id", p.ID)
	return nil
}

// discard removes an image nothing references anymore.
func (s *ProductService) discard(ctx context.Context, ref, reason string) {
	if err := s.assets.Delete(ctx, ref); err != nil {
		s.logger.Warn(ctx, "orphaned asset", "ref", ref, "reason", reason, "error", err)
	}
}

func validateFields(f models.ProductFields) error {
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}
	if f.Description != nil && strings.TrimSpace(*f.Description) == "" {
		return fmt.Errorf("%w: description must not be empty", common.ErrValidation)
	}
	if f.Price != nil {
		if math.IsNaN(*f.Price) || math.IsInf(*f.Price, 0) || *f.Price < 0 {
			return fmt.Errorf("%w: price must be a non-negative number", common.ErrValidation)
		}
	}
	return nil
}
