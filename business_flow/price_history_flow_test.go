package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/cenovka/cenovka/app/services"
	"github.com/cenovka/cenovka/models"
	"github.com/cenovka/cenovka/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPriceHistoryStore(t *testing.T, store *memoryStore) {
	t.Helper()
	ctx := context.Background()
	uploadRepo := &stubUploadRepo{store: store}

	january := &models.Upload{ID: "u-jan", Filename: "leden.xlsx", UploadedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	february := &models.Upload{ID: "u-feb", Filename: "unor.xlsx", UploadedAt: time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, uploadRepo.Save(ctx, january))
	require.NoError(t, uploadRepo.Save(ctx, february))

	food := "Potraviny"
	store.products["u-jan"] = []*models.Product{
		{ID: "p1", UploadID: "u-jan", Name: "Mléko Polotučné", TotalPrice: 25.5, Category: &food},
		{ID: "p2", UploadID: "u-jan", Name: "Chléb", TotalPrice: 32},
	}
	store.products["u-feb"] = []*models.Product{
		// Same product, different casing and spacing
		{ID: "p3", UploadID: "u-feb", Name: "mléko  polotučné", TotalPrice: 27.9, Category: &food},
		{ID: "p4", UploadID: "u-feb", Name: "Chléb", TotalPrice: 33.5},
	}
}

func TestBuildPriceHistory(t *testing.T) {
	store := newMemoryStore()
	seedPriceHistoryStore(t, store)
	flow := NewPriceHistoryFlow(&stubProductRepo{store: store}, &trackingCache{})

	resp, err := flow.BuildPriceHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	milk := resp.Items[0]
	// Display name comes from the first product encountered in the group
	assert.Equal(t, "Mléko Polotučné", milk.Name)
	assert.Equal(t, "Potraviny", milk.Category)
	require.Len(t, milk.PriceHistory, 2)
	assert.Equal(t, 25.5, milk.PriceHistory[0].Price)
	assert.Equal(t, "leden.xlsx", milk.PriceHistory[0].UploadFilename)
	assert.Equal(t, 27.9, milk.PriceHistory[1].Price)
	assert.True(t, milk.PriceHistory[0].UploadDate.Before(milk.PriceHistory[1].UploadDate))

	bread := resp.Items[1]
	assert.Equal(t, "Chléb", bread.Name)
	assert.Equal(t, "", bread.Category)
	require.Len(t, bread.PriceHistory, 2)
}

func TestBuildPriceHistorySplitsByCategory(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	upload := &models.Upload{ID: "u1", Filename: "nakup.xlsx", UploadedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, (&stubUploadRepo{store: store}).Save(ctx, upload))

	food := "Potraviny"
	household := "Domácnost"
	store.products["u1"] = []*models.Product{
		{ID: "p1", UploadID: "u1", Name: "Olej", TotalPrice: 60, Category: &food},
		{ID: "p2", UploadID: "u1", Name: "Olej", TotalPrice: 90, Category: &household},
	}

	flow := NewPriceHistoryFlow(&stubProductRepo{store: store}, &trackingCache{})
	resp, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	// Same name under different categories tracks as two products
	require.Len(t, resp.Items, 2)
}

func TestBuildPriceHistoryMergesBlankAndMissingCategory(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	upload := &models.Upload{ID: "u1", Filename: "nakup.xlsx", UploadedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, (&stubUploadRepo{store: store}).Save(ctx, upload))

	blank := ""
	store.products["u1"] = []*models.Product{
		{ID: "p1", UploadID: "u1", Name: "Rohlík", TotalPrice: 3, Category: nil},
		{ID: "p2", UploadID: "u1", Name: "Rohlík", TotalPrice: 4, Category: &blank},
	}

	flow := NewPriceHistoryFlow(&stubProductRepo{store: store}, &trackingCache{})
	resp, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Len(t, resp.Items[0].PriceHistory, 2)
}

func TestBuildPriceHistoryEmpty(t *testing.T) {
	flow := NewPriceHistoryFlow(&stubProductRepo{store: newMemoryStore()}, &trackingCache{})

	resp, err := flow.BuildPriceHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestBuildPriceHistoryUsesCache(t *testing.T) {
	store := newMemoryStore()
	seedPriceHistoryStore(t, store)
	cache := &trackingCache{}
	flow := NewPriceHistoryFlow(&stubProductRepo{store: store}, cache)
	ctx := context.Background()

	first, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	assert.True(t, cache.hasValue)

	// A second call is served from the cache even if the store changes
	store.products["u-jan"] = nil
	second, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Items, second.Items)

	// Invalidation forces a rebuild
	cache.Invalidate(ctx)
	third, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Items, third.Items)
}

// racingProductRepo completes a write (new product plus cache invalidation)
// in the middle of a price-history scan, returning the pre-write rows to the
// scanning caller.
type racingProductRepo struct {
	*stubProductRepo
	cache   services.PriceHistoryCache
	written bool
}

func (r *racingProductRepo) ListWithUploads(ctx context.Context) ([]*repository.ProductWithUpload, error) {
	rows, err := r.stubProductRepo.ListWithUploads(ctx)
	if !r.written {
		r.written = true
		r.store.products["u1"] = append(r.store.products["u1"],
			&models.Product{ID: "p-new", UploadID: "u1", Name: "Cibule", TotalPrice: 15})
		r.cache.Invalidate(ctx)
	}
	return rows, err
}

func TestBuildPriceHistoryDoesNotRecacheStaleView(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	upload := &models.Upload{ID: "u1", Filename: "nakup.xlsx", UploadedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, (&stubUploadRepo{store: store}).Save(ctx, upload))
	store.products["u1"] = []*models.Product{
		{ID: "p1", UploadID: "u1", Name: "Zelí", TotalPrice: 20},
	}

	cache := &trackingCache{}
	flow := NewPriceHistoryFlow(&racingProductRepo{
		stubProductRepo: &stubProductRepo{store: store},
		cache:           cache,
	}, cache)

	// The first aggregation scans before the racing write lands
	first, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	// Invoked after the write completed, so the pre-write view must not be
	// served from the cache
	second, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
}

func TestGroupKey(t *testing.T) {
	food := "Potraviny"
	assert.Equal(t, groupKey("Mléko", &food), groupKey("  MLÉKO ", &food))
	assert.NotEqual(t, groupKey("Mléko", &food), groupKey("Mléko", nil))

	blank := ""
	assert.Equal(t, groupKey("Mléko", nil), groupKey("Mléko", &blank))
}

func TestPriceHistoryItemOrderIsFirstEncounter(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	upload := &models.Upload{ID: "u1", Filename: "nakup.xlsx", UploadedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, (&stubUploadRepo{store: store}).Save(ctx, upload))

	store.products["u1"] = []*models.Product{
		{ID: "p1", UploadID: "u1", Name: "Zelí", TotalPrice: 20},
		{ID: "p2", UploadID: "u1", Name: "Ananas", TotalPrice: 45},
		{ID: "p3", UploadID: "u1", Name: "Zelí", TotalPrice: 22},
	}

	flow := NewPriceHistoryFlow(&stubProductRepo{store: store}, &trackingCache{})
	resp, err := flow.BuildPriceHistory(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, []dto.PricePoint{
		{Price: 20, UploadDate: upload.UploadedAt, UploadFilename: "nakup.xlsx"},
		{Price: 22, UploadDate: upload.UploadedAt, UploadFilename: "nakup.xlsx"},
	}, resp.Items[0].PriceHistory)
	assert.Equal(t, "Zelí", resp.Items[0].Name)
	assert.Equal(t, "Ananas", resp.Items[1].Name)
}
