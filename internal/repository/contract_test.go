package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"product-catalog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoFactory returns an empty repository and an id that is well formed for
// the backend but not stored in it.
type repoFactory func(t *testing.T) (repo ProductRepository, missingID string)

func createProduct(t *testing.T, repo ProductRepository, name string, price float64, stock int) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

// runProductRepositoryTests exercises the behaviour every backend must share.
func runProductRepositoryTests(t *testing.T, newRepo repoFactory) {
	ctx := context.Background()

	t.Run("Create assigns ID and creation time", func(t *testing.T) {
		repo, _ := newRepo(t)

		p := createProduct(t, repo, "Red Widget", 12.5, 3)
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())

		found, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.ID, found.ID)
		assert.Equal(t, "Red Widget", found.Name)
		assert.Equal(t, 12.5, found.Price)
		assert.Equal(t, 3, found.Stock)
	})

	t.Run("Price is stored without rounding or range limits", func(t *testing.T) {
		repo, _ := newRepo(t)

		for _, price := range []float64{9.999, 0.123456789, 99999999999.999, 1e15} {
			p := createProduct(t, repo, "Precise Widget", price, 1)

			found, err := repo.GetByID(ctx, p.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, price, found.Price)
		}
	})

	t.Run("FindByNamePatterns wildcard spans line breaks", func(t *testing.T) {
		repo, _ := newRepo(t)

		createProduct(t, repo, "Red\nWidget", 1, 1)
		createProduct(t, repo, "Blue Gadget", 2, 1)

		found, err := repo.FindByNamePatterns(ctx, []string{"red.*widget"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Red\nWidget"}, names(found))
	})

	t.Run("GetByID returns nil for unknown and malformed IDs", func(t *testing.T) {
		repo, missingID := newRepo(t)

		for _, id := range []string{missingID, "not-an-id", ""} {
			found, err := repo.GetByID(ctx, id)
			require.NoError(t, err, id)
			assert.Nil(t, found, id)
		}
	})

	t.Run("GetAll returns products in creation order", func(t *testing.T) {
		repo, _ := newRepo(t)

		empty, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		createProduct(t, repo, "First", 1, 0)
		createProduct(t, repo, "Second", 2, 0)
		createProduct(t, repo, "Third", 3, 0)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"First", "Second", "Third"}, names(all))
	})

	t.Run("FindByNamePatterns matches case-insensitively with OR semantics", func(t *testing.T) {
		repo, _ := newRepo(t)

		createProduct(t, repo, "Red Widget", 1, 1)
		createProduct(t, repo, "Blue Widget", 2, 1)
		createProduct(t, repo, "Green Gadget", 3, 1)
		createProduct(t, repo, "Widget, Red edition", 4, 1)

		tests := []struct {
			name     string
			patterns []string
			expected []string
		}{
			{
				name:     "Wildcard between words",
				patterns: []string{"red.*widget"},
				expected: []string{"Red Widget"},
			},
			{
				name:     "Substring match",
				patterns: []string{"WIDGET"},
				expected: []string{"Red Widget", "Blue Widget", "Widget, Red edition"},
			},
			{
				name:     "Product matching several patterns is returned once",
				patterns: []string{"red", "widget"},
				expected: []string{"Red Widget", "Blue Widget", "Widget, Red edition"},
			},
			{
				name:     "Any pattern qualifies",
				patterns: []string{"gadget", "blue"},
				expected: []string{"Blue Widget", "Green Gadget"},
			},
			{
				name:     "No match",
				patterns: []string{"sprocket"},
				expected: []string{},
			},
			{
				name:     "No patterns",
				patterns: nil,
				expected: []string{},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				found, err := repo.FindByNamePatterns(ctx, tt.patterns)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, names(found))
			})
		}
	})

	t.Run("DecrementStock lowers stock until zero", func(t *testing.T) {
		repo, _ := newRepo(t)
		p := createProduct(t, repo, "Lamp", 20, 1)

		updated, err := repo.DecrementStock(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, 0, updated.Stock)
		assert.Equal(t, p.ID, updated.ID)

		_, err = repo.DecrementStock(ctx, p.ID)
		assert.True(t, errors.Is(err, model.ErrInsufficientStock))

		found, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 0, found.Stock)
	})

	t.Run("DecrementStock reports unknown products", func(t *testing.T) {
		repo, missingID := newRepo(t)

		for _, id := range []string{missingID, "not-an-id"} {
			_, err := repo.DecrementStock(ctx, id)
			assert.True(t, errors.Is(err, model.ErrProductNotFound), id)
		}
	})

	t.Run("DecrementStock never oversells under concurrency", func(t *testing.T) {
		repo, _ := newRepo(t)
		p := createProduct(t, repo, "Limited", 5, 5)

		var (
			wg           sync.WaitGroup
			succeeded    atomic.Int32
			insufficient atomic.Int32
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.DecrementStock(ctx, p.ID)
				switch {
				case err == nil:
					succeeded.Add(1)
				case errors.Is(err, model.ErrInsufficientStock):
					insufficient.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), succeeded.Load())
		assert.Equal(t, int32(15), insufficient.Load())

		found, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 0, found.Stock)
	})

	t.Run("Delete removes once", func(t *testing.T) {
		repo, missingID := newRepo(t)
		p := createProduct(t, repo, "Chair", 40, 2)

		deleted, err := repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		for _, id := range []string{missingID, "not-an-id"} {
			deleted, err = repo.Delete(ctx, id)
			require.NoError(t, err)
			assert.False(t, deleted, id)
		}

		found, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Count tracks inserts and deletes", func(t *testing.T) {
		repo, _ := newRepo(t)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		a := createProduct(t, repo, "A", 1, 0)
		createProduct(t, repo, "B", 1, 0)

		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		_, err = repo.Delete(ctx, a.ID)
		require.NoError(t, err)

		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
