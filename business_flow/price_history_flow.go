package businessflow

import (
	"context"
	"sort"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/cenovka/cenovka/app/services"
	"github.com/cenovka/cenovka/repository"
	"github.com/cenovka/cenovka/utils"
)

// PriceHistoryFlow reconstructs per-product price histories across uploads
type PriceHistoryFlow interface {
	BuildPriceHistory(ctx context.Context) (*dto.PriceHistoryResponse, error)
}

// PriceHistoryFlowImpl implements PriceHistoryFlow
type PriceHistoryFlowImpl struct {
	productRepo repository.ProductRepository
	cache       services.PriceHistoryCache
}

// NewPriceHistoryFlow creates a new price history flow
func NewPriceHistoryFlow(productRepo repository.ProductRepository, cache services.PriceHistoryCache) PriceHistoryFlow {
	return &PriceHistoryFlowImpl{productRepo: productRepo, cache: cache}
}

// The grouping key joins the normalized name and the category with a
// separator that cannot appear in a normalized name. An absent category and a
// blank category both map to "" so the two never split a group.
func groupKey(name string, category *string) string {
	return utils.NormalizeProductName(name) + "|||" + utils.Deref(category)
}

// BuildPriceHistory scans every product joined with its owning upload and
// groups by normalized name + category. Each group keeps the display name of
// the first product encountered and a price series sorted ascending by upload
// date; groups appear in first-encounter order. The grouping map is local to
// the call.
func (f *PriceHistoryFlowImpl) BuildPriceHistory(ctx context.Context) (*dto.PriceHistoryResponse, error) {
	if cached, ok := f.cache.Get(ctx); ok {
		return &dto.PriceHistoryResponse{
			Message: "Price history retrieved successfully",
			Items:   cached,
		}, nil
	}

	// Record the write generation before scanning; a write completing during
	// the scan bumps it, and Set with the stale generation is then a no-op.
	generation := f.cache.Generation(ctx)

	rows, err := f.productRepo.ListWithUploads(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICE_HISTORY_FAILED", "failed to fetch products", err)
	}

	groups := make(map[string]*dto.PriceHistoryItem)
	order := make([]string, 0)

	for _, row := range rows {
		key := groupKey(row.Name, row.Category)

		group, ok := groups[key]
		if !ok {
			group = &dto.PriceHistoryItem{
				Name:         row.Name, // original name for display
				Category:     utils.Deref(row.Category),
				PriceHistory: []dto.PricePoint{},
			}
			groups[key] = group
			order = append(order, key)
		}

		group.PriceHistory = append(group.PriceHistory, dto.PricePoint{
			Price:          row.TotalPrice,
			UploadDate:     utils.TimeToUTC(row.UploadDate),
			UploadFilename: row.UploadFilename,
		})
	}

	items := make([]dto.PriceHistoryItem, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group.PriceHistory, func(i, j int) bool {
			return group.PriceHistory[i].UploadDate.Before(group.PriceHistory[j].UploadDate)
		})
		// Empty groups are impossible by construction but excluded anyway
		if len(group.PriceHistory) == 0 {
			continue
		}
		items = append(items, *group)
	}

	f.cache.Set(ctx, generation, items)

	return &dto.PriceHistoryResponse{
		Message: "Price history retrieved successfully",
		Items:   items,
	}, nil
}
