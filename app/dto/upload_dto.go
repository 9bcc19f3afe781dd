package dto

import "github.com/cenovka/cenovka/utils"

// ProductPayload is one pre-parsed line item in a create-upload request.
// TotalPrice travels as a string and is normalized leniently on the server.
type ProductPayload struct {
	Name       string  `json:"name" validate:"required"`
	TotalPrice string  `json:"total_price" validate:"required"`
	Category   *string `json:"category,omitempty"`
}

// CreateUploadRequest carries a batch of pre-parsed products to persist under
// a new upload. Products must be present (an empty list is valid, a missing
// list is not).
type CreateUploadRequest struct {
	Filename string           `json:"filename" validate:"required,min=1"`
	Products []ProductPayload `json:"products"`
}

// UploadItem represents an upload row in listings
type UploadItem struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	UploadedAt   string   `json:"uploaded_at"`
	ProductCount int64    `json:"product_count"`
	ParseErrors  []string `json:"parse_errors,omitempty"`
}

// ProductItem represents a product row in listings
type ProductItem struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	TotalPrice          float64 `json:"total_price"`
	TotalPriceFormatted string  `json:"total_price_formatted"`
	Category            *string `json:"category,omitempty"`
}

// CreateUploadResponse returns the created upload together with its persisted
// products and any non-fatal per-row parse errors (partial success).
type CreateUploadResponse struct {
	Message     string        `json:"message"`
	Upload      UploadItem    `json:"upload"`
	Products    []ProductItem `json:"products"`
	ParseErrors []string      `json:"parse_errors,omitempty"`
}

// ListUploadsResponse returns all uploads, newest first
type ListUploadsResponse struct {
	Message string       `json:"message"`
	Uploads []UploadItem `json:"uploads"`
}

// ListProductsRequest filters the products of one upload.
// Category "all" (or empty) keeps every category; Search matches name or
// category case-insensitively.
type ListProductsRequest struct {
	UploadID string `json:"upload_id" validate:"required"`
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// StatsItem carries summary statistics over a product list
type StatsItem struct {
	TotalProducts         int     `json:"total_products"`
	TotalValue            float64 `json:"total_value"`
	TotalValueFormatted   string  `json:"total_value_formatted"`
	AveragePrice          float64 `json:"average_price"`
	AveragePriceFormatted string  `json:"average_price_formatted"`
}

// NewStatsItem builds a StatsItem from computed stats
func NewStatsItem(stats utils.ProductStats) StatsItem {
	return StatsItem{
		TotalProducts:         stats.TotalProducts,
		TotalValue:            stats.TotalValue,
		TotalValueFormatted:   utils.FormatCurrency(stats.TotalValue),
		AveragePrice:          stats.AveragePrice,
		AveragePriceFormatted: utils.FormatCurrency(stats.AveragePrice),
	}
}

// ListProductsResponse returns one upload's products plus the derived filter
// view-model: Categories always reflects the unfiltered product list so the
// category selector never shrinks under a text search, while Stats covers the
// filtered list only.
type ListProductsResponse struct {
	Message    string        `json:"message"`
	UploadID   string        `json:"upload_id"`
	Products   []ProductItem `json:"products"`
	Categories []string      `json:"categories"`
	Stats      StatsItem     `json:"stats"`
}

// DeleteUploadResponse confirms a cascading deletion
type DeleteUploadResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
