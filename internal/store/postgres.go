package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hypd/shortlink/internal/shortener"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert persists a mapping. Collisions are detected through the short_code
// unique constraint: ON CONFLICT DO NOTHING returns no row, which surfaces as
// ErrCodeTaken instead of a racy check-then-insert.
func (p *PostgresStore) Insert(ctx context.Context, m *shortener.Mapping) error {
	query := `
		INSERT INTO urls (
			short_code, original_url, created_at,
			product_id, product_name, product_price,
			brand_name, product_image_url, is_product_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (short_code) DO NOTHING
		RETURNING created_at
	`

	var (
		productID, productName, brandName, imageURL *string
		productPrice                                *float64
		isProduct                                   bool
	)

	if prod := m.Product; prod != nil {
		isProduct = true
		productID = &prod.ID

		if prod.Resolved {
			productName = &prod.Name
			productPrice = &prod.Price
			brandName = &prod.Brand

			if prod.ImageURL != "" {
				imageURL = &prod.ImageURL
			}
		}
	}

	err := p.pool.QueryRow(ctx, query,
		m.Code,
		m.OriginalURL,
		m.CreatedAt,
		productID,
		productName,
		productPrice,
		brandName,
		imageURL,
		isProduct,
	).Scan(&m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shortener.ErrCodeTaken
		}

		return fmt.Errorf("insert url mapping: %w", err)
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code string) (*shortener.Mapping, error) {
	query := `
		SELECT short_code, original_url, click_count, created_at,
		       last_accessed, first_click, last_click,
		       product_id, product_name, product_price,
		       brand_name, product_image_url, is_product_url
		FROM urls
		WHERE short_code = $1
	`

	var (
		m                                           shortener.Mapping
		productID, productName, brandName, imageURL *string
		productPrice                                *float64
		isProduct                                   bool
	)

	err := p.pool.QueryRow(ctx, query, code).Scan(
		&m.Code,
		&m.OriginalURL,
		&m.ClickCount,
		&m.CreatedAt,
		&m.LastAccessed,
		&m.FirstClick,
		&m.LastClick,
		&productID,
		&productName,
		&productPrice,
		&brandName,
		&imageURL,
		&isProduct,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("get url mapping: %w", err)
	}

	if isProduct {
		prod := &shortener.Product{Resolved: productName != nil}

		if productID != nil {
			prod.ID = *productID
		}

		if productName != nil {
			prod.Name = *productName
		}

		if productPrice != nil {
			prod.Price = *productPrice
		}

		if brandName != nil {
			prod.Brand = *brandName
		}

		if imageURL != nil {
			prod.ImageURL = *imageURL
		}

		m.Product = prod
	}

	return &m, nil
}

// RecordClick applies the full click bookkeeping in one statement, so
// concurrent clicks on the same code neither lose increments nor both win the
// first_click assignment.
func (p *PostgresStore) RecordClick(ctx context.Context, code string, at time.Time) (string, error) {
	query := `
		UPDATE urls
		SET click_count   = click_count + 1,
		    last_accessed = $2,
		    last_click    = $2,
		    first_click   = COALESCE(first_click, $2)
		WHERE short_code = $1
		RETURNING original_url
	`

	var originalURL string

	err := p.pool.QueryRow(ctx, query, code, at).Scan(&originalURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("record click: %w", err)
	}

	return originalURL, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
