package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-crud/internal/product/domain"
)

func TestMemoryProductRepository_CreateAssignsIDAndVersion(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	first := &domain.Product{Name: "Widget", ID: 42}
	second := &domain.Product{Name: "Gadget"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
	assert.Equal(t, uint(1), first.Version)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
	assert.Equal(t, first.CreatedAt, first.CreatedAt.Truncate(time.Microsecond))

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *found)
}

func TestMemoryProductRepository_FindByIDMissing(t *testing.T) {
	repo := NewMemoryProductRepository()

	_, err := repo.FindByID(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMemoryProductRepository_FindAllOrderedByID(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &domain.Product{Name: name}))
	}
	require.NoError(t, repo.Delete(ctx, 2))

	products, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].Name)
	assert.Equal(t, "c", products[1].Name)
}

func TestMemoryProductRepository_Replace(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	original := &domain.Product{Name: "Widget", Price: 9.5, Stock: 3}
	require.NoError(t, repo.Create(ctx, original))

	t.Run("overwrites the whole record", func(t *testing.T) {
		next := &domain.Product{ID: original.ID, Name: "Widget2"}
		require.NoError(t, repo.Replace(ctx, next, 1))
		assert.Equal(t, uint(2), next.Version)

		stored, err := repo.FindByID(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget2", stored.Name)
		assert.Zero(t, stored.Price)
		assert.Zero(t, stored.Stock)
		assert.Equal(t, original.CreatedAt, stored.CreatedAt)
	})

	t.Run("stale version", func(t *testing.T) {
		err := repo.Replace(ctx, &domain.Product{ID: original.ID, Name: "late"}, 1)
		assert.ErrorIs(t, err, domain.ErrStaleWrite)
	})

	t.Run("missing row", func(t *testing.T) {
		err := repo.Replace(ctx, &domain.Product{ID: 99}, 1)
		assert.ErrorIs(t, err, domain.ErrStaleWrite)
	})
}

func TestMemoryProductRepository_DeleteAndExists(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	p := &domain.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, p))

	exists, err := repo.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrProductNotFound)

	exists, err = repo.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryProductRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryProductRepository_ConcurrentReplaceOneWinner(t *testing.T) {
	repo := NewMemoryProductRepository()
	ctx := context.Background()

	p := &domain.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, p))

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Replace(ctx, &domain.Product{ID: p.ID, Name: "w"}, 1)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, stale int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrStaleWrite)
			stale++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, stale)
}
