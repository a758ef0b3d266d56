package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hypd/shortlink/internal/catalog"
	"go.uber.org/zap"
)

// maxAttempts bounds the collision retry loop during creation.
const maxAttempts = 5

// Repository defines the storage operations the service needs.
type Repository interface {
	// Insert persists a new mapping. It returns ErrCodeTaken when the code
	// lost the uniqueness race, leaving storage untouched.
	Insert(ctx context.Context, m *Mapping) error

	// GetByCode returns the mapping without mutating it, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (*Mapping, error)

	// RecordClick atomically applies the click bookkeeping for a code:
	// clickCount+1, lastAccessed/lastClick = at, firstClick = at only if
	// unset. It returns the original URL, or ErrNotFound.
	RecordClick(ctx context.Context, code string, at time.Time) (string, error)
}

// Service orchestrates code generation, metadata resolution and storage.
type Service struct {
	repo     Repository
	resolver catalog.Resolver
	generate Generate
	logger   *zap.Logger
}

// NewService creates a shortening service.
func NewService(repo Repository, resolver catalog.Resolver, generate Generate, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		generate: generate,
		logger:   logger,
	}
}

// Create resolves product metadata for originalURL and persists a new mapping
// under a fresh short code. The caller validates the URL before calling.
//
// Collisions are detected by the storage uniqueness constraint rather than a
// separate existence check, so concurrent creates that draw the same code end
// with exactly one surviving row and the loser retries.
func (s *Service) Create(ctx context.Context, originalURL string) (*Mapping, error) {
	product := s.resolveProduct(ctx, originalURL)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		m := &Mapping{
			Code:        s.generate(),
			OriginalURL: originalURL,
			CreatedAt:   time.Now(),
			Product:     product,
		}

		err := s.repo.Insert(ctx, m)
		if err == nil {
			return m, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, fmt.Errorf("insert mapping: %w", err)
		}

		s.logger.Warn("short code collision, retrying",
			zap.String("code", m.Code),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, ErrCodeSpaceExhausted
}

// Click records a redirect for code and returns its destination URL.
func (s *Service) Click(ctx context.Context, code string) (string, error) {
	return s.repo.RecordClick(ctx, code, time.Now())
}

// Stats returns the stored mapping without recording a click.
func (s *Service) Stats(ctx context.Context, code string) (*Mapping, error) {
	return s.repo.GetByCode(ctx, code)
}

// resolveProduct maps the resolver's typed outcome onto the mapping's product
// fields. Resolver failures never propagate.
func (s *Service) resolveProduct(ctx context.Context, originalURL string) *Product {
	meta := s.resolver.Resolve(ctx, originalURL)

	switch meta.Kind {
	case catalog.KindResolved:
		return &Product{
			ID:       meta.ProductID,
			Name:     meta.Name,
			Price:    meta.Price,
			Brand:    meta.Brand,
			ImageURL: meta.ImageURL,
			Resolved: true,
		}
	case catalog.KindUnresolved:
		return &Product{ID: meta.ProductID}
	default:
		return nil
	}
}
