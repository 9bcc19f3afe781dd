package businessflow

import (
	"sort"
	"strings"

	"github.com/cenovka/cenovka/app/dto"
	"github.com/cenovka/cenovka/models"
	"github.com/cenovka/cenovka/utils"
)

// CategoryFilterAll is the sentinel category filter that keeps every product
const CategoryFilterAll = "all"

// CatalogView is the derived state for a product listing: the filtered rows,
// the category choices, and summary statistics over the filtered rows.
type CatalogView struct {
	Products   []dto.ProductItem
	Categories []string
	Stats      utils.ProductStats
}

// BuildCatalogView filters products by category and search text and derives
// the view-model. Categories always come from the unfiltered list, so the
// category selector never shrinks as a side effect of the user's own search;
// stats cover the filtered list only.
func BuildCatalogView(products []*models.Product, searchQuery, categoryFilter string) *CatalogView {
	categories := distinctCategories(products)

	filtered := products
	if categoryFilter != "" && categoryFilter != CategoryFilterAll {
		kept := make([]*models.Product, 0, len(filtered))
		for _, p := range filtered {
			if p.Category != nil && *p.Category == categoryFilter {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if query := strings.ToLower(strings.TrimSpace(searchQuery)); query != "" {
		kept := make([]*models.Product, 0, len(filtered))
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Name), query) ||
				(p.Category != nil && strings.Contains(strings.ToLower(*p.Category), query)) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	items := make([]dto.ProductItem, 0, len(filtered))
	prices := make([]float64, 0, len(filtered))
	for _, p := range filtered {
		items = append(items, newProductItem(p))
		prices = append(prices, p.TotalPrice)
	}

	return &CatalogView{
		Products:   items,
		Categories: categories,
		Stats:      utils.CalculateProductStats(prices),
	}
}

// distinctCategories returns the sorted set of distinct non-empty categories
func distinctCategories(products []*models.Product) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == nil || *p.Category == "" {
			continue
		}
		if _, ok := seen[*p.Category]; ok {
			continue
		}
		seen[*p.Category] = struct{}{}
		categories = append(categories, *p.Category)
	}
	sort.Strings(categories)
	return categories
}
