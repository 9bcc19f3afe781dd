package dto

import "time"

// PricePoint is one observation of a product's price in one upload
type PricePoint struct {
	Price          float64   `json:"price"`
	UploadDate     time.Time `json:"upload_date"`
	UploadFilename string    `json:"upload_filename"`
}

// PriceHistoryItem is one row per distinct (normalized name, category) pair
// across all uploads. Name keeps the original casing/spacing of the first
// product encountered in the group; Category is "" for uncategorized items.
// PriceHistory is ordered ascending by upload date and never empty.
type PriceHistoryItem struct {
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	PriceHistory []PricePoint `json:"price_history"`
}

// PriceHistoryResponse returns the full price-history listing
type PriceHistoryResponse struct {
	Message string             `json:"message"`
	Items   []PriceHistoryItem `json:"items"`
}
