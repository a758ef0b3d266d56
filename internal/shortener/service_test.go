package shortener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hypd/shortlink/internal/catalog"
	"github.com/hypd/shortlink/internal/shortener"
	"github.com/hypd/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testProductID = "6888713305e32ec275591e09"

// staticResolver always returns the same metadata.
type staticResolver struct {
	meta catalog.Metadata
}

func (r staticResolver) Resolve(_ context.Context, _ string) catalog.Metadata {
	return r.meta
}

// seqGenerator cycles through the given codes, counting calls.
func seqGenerator(calls *int, codes ...string) shortener.Generate {
	i := 0

	return func() string {
		code := codes[i%len(codes)]
		i++

		if calls != nil {
			*calls++
		}

		return code
	}
}

func newTestService(repo shortener.Repository, gen shortener.Generate, meta catalog.Metadata) *shortener.Service {
	return shortener.NewService(repo, staticResolver{meta: meta}, gen, zap.NewNop())
}

func TestServiceCreate(t *testing.T) {
	t.Run("creates a mapping with a generated code", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		m, err := svc.Create(context.Background(), "https://hypd.store/about")

		require.NoError(t, err)
		assert.Equal(t, "aB3xY9", m.Code)
		assert.Equal(t, "https://hypd.store/about", m.OriginalURL)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Zero(t, m.ClickCount)
		assert.Nil(t, m.FirstClick)
		assert.Nil(t, m.Product)
	})

	t.Run("retries on collision and succeeds with a fresh code", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newTestService(repo, seqGenerator(nil, "AAAAAA", "BBBBBB"), catalog.Metadata{})

		first, err := svc.Create(context.Background(), "https://hypd.store/one")
		require.NoError(t, err)
		require.Equal(t, "AAAAAA", first.Code)

		second, err := svc.Create(context.Background(), "https://hypd.store/two")

		require.NoError(t, err)
		assert.Equal(t, "BBBBBB", second.Code)
	})

	t.Run("fails after five collisions", func(t *testing.T) {
		repo := store.NewMemoryStore()

		var calls int

		svc := newTestService(repo, seqGenerator(&calls, "AAAAAA"), catalog.Metadata{})

		_, err := svc.Create(context.Background(), "https://hypd.store/one")
		require.NoError(t, err)

		calls = 0
		_, err = svc.Create(context.Background(), "https://hypd.store/two")

		assert.ErrorIs(t, err, shortener.ErrCodeSpaceExhausted)
		assert.Equal(t, 5, calls)
	})

	t.Run("attaches resolved product metadata", func(t *testing.T) {
		meta := catalog.Metadata{
			Kind:      catalog.KindResolved,
			ProductID: testProductID,
			Name:      "Oversized Tee",
			Price:     999,
			Brand:     "Some Brand",
			ImageURL:  "https://cdn.hypd.store/tee.jpg",
		}
		svc := newTestService(store.NewMemoryStore(), seqGenerator(nil, "aB3xY9"), meta)

		m, err := svc.Create(context.Background(), "https://www.hypd.store/hypd_store/product/"+testProductID)

		require.NoError(t, err)
		require.NotNil(t, m.Product)
		assert.True(t, m.Product.Resolved)
		assert.Equal(t, testProductID, m.Product.ID)
		assert.Equal(t, "Oversized Tee", m.Product.Name)
		assert.Equal(t, float64(999), m.Product.Price)
		assert.Equal(t, "Some Brand", m.Product.Brand)
		assert.Equal(t, "https://cdn.hypd.store/tee.jpg", m.Product.ImageURL)
	})

	t.Run("degrades to an unresolved product when the lookup failed", func(t *testing.T) {
		meta := catalog.Metadata{Kind: catalog.KindUnresolved, ProductID: testProductID}
		svc := newTestService(store.NewMemoryStore(), seqGenerator(nil, "aB3xY9"), meta)

		m, err := svc.Create(context.Background(), "https://www.hypd.store/hypd_store/product/"+testProductID)

		require.NoError(t, err)
		require.NotNil(t, m.Product)
		assert.False(t, m.Product.Resolved)
		assert.Equal(t, testProductID, m.Product.ID)
		assert.Empty(t, m.Product.Name)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		repo := &failingRepo{insertErr: errors.New("connection lost")}
		svc := newTestService(repo, seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		_, err := svc.Create(context.Background(), "https://hypd.store/about")

		require.Error(t, err)
		assert.NotErrorIs(t, err, shortener.ErrCodeSpaceExhausted)
	})
}

func TestServiceClick(t *testing.T) {
	t.Run("round-trips the exact original url", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newTestService(repo, seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		m, err := svc.Create(context.Background(), "https://hypd.store/collections/new?sort=price")
		require.NoError(t, err)

		destination, err := svc.Click(context.Background(), m.Code)

		require.NoError(t, err)
		assert.Equal(t, "https://hypd.store/collections/new?sort=price", destination)
	})

	t.Run("counts every click and freezes the first", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newTestService(repo, seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		m, err := svc.Create(context.Background(), "https://hypd.store/about")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = svc.Click(context.Background(), m.Code)
			require.NoError(t, err)
		}

		stats, err := svc.Stats(context.Background(), m.Code)
		require.NoError(t, err)

		assert.Equal(t, int64(3), stats.ClickCount)
		require.NotNil(t, stats.FirstClick)
		require.NotNil(t, stats.LastClick)
		require.NotNil(t, stats.LastAccessed)
		assert.False(t, stats.FirstClick.After(*stats.LastClick))
		assert.Equal(t, *stats.LastClick, *stats.LastAccessed)

		first := *stats.FirstClick

		_, err = svc.Click(context.Background(), m.Code)
		require.NoError(t, err)

		stats, err = svc.Stats(context.Background(), m.Code)
		require.NoError(t, err)

		assert.Equal(t, int64(4), stats.ClickCount)
		assert.Equal(t, first, *stats.FirstClick)
	})

	t.Run("returns ErrNotFound for unknown codes", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		_, err := svc.Click(context.Background(), "zzz999")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestServiceStats(t *testing.T) {
	t.Run("reads are idempotent", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newTestService(repo, seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		m, err := svc.Create(context.Background(), "https://hypd.store/about")
		require.NoError(t, err)

		_, err = svc.Click(context.Background(), m.Code)
		require.NoError(t, err)

		first, err := svc.Stats(context.Background(), m.Code)
		require.NoError(t, err)

		second, err := svc.Stats(context.Background(), m.Code)
		require.NoError(t, err)

		assert.Equal(t, first.ClickCount, second.ClickCount)
		assert.Equal(t, first.FirstClick, second.FirstClick)
		assert.Equal(t, first.LastClick, second.LastClick)
	})

	t.Run("returns ErrNotFound for unknown codes", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), seqGenerator(nil, "aB3xY9"), catalog.Metadata{})

		_, err := svc.Stats(context.Background(), "zzz999")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

// failingRepo reports a configured error on insert.
type failingRepo struct {
	insertErr error
}

func (r *failingRepo) Insert(_ context.Context, _ *shortener.Mapping) error {
	return r.insertErr
}

func (r *failingRepo) GetByCode(_ context.Context, _ string) (*shortener.Mapping, error) {
	return nil, shortener.ErrNotFound
}

func (r *failingRepo) RecordClick(_ context.Context, _ string, _ time.Time) (string, error) {
	return "", shortener.ErrNotFound
}
