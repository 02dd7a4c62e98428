package products

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	// Delete removes the row and returns it as it was, so the caller can
	// retire its image.
	Delete(ctx context.Context, id string) (*models.Product, error)
}
