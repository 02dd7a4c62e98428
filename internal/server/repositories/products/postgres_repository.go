// Package products persists catalog items in PostgreSQL.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	p := &models.Product{}
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// List returns all products, most recent first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT id, name, description, price, image, created_at FROM products
		ORDER BY created_at DESC, id
		`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT id, name, description, price, image, created_at FROM products
		WHERE id = $1
		`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT id, name, description, price, image, created_at FROM products
		WHERE id = $1
		FOR UPDATE
		`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (name, description, price, image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Price, p.Image).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) error {
	query :=
		`UPDATE products SET name = $2, description = $3, price = $4, image = $5
		 WHERE id = $1
		 `

	result, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Image)
	if err != nil {
		return notFoundOr(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	switch rowsAffected {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", rowsAffected)
	}
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	query := `DELETE FROM products WHERE id = $1
		RETURNING id, name, description, price, image, created_at
		`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}
