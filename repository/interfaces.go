// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/cenovka/cenovka/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id string) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// UploadRepository defines operations for uploads
type UploadRepository interface {
	Repository[models.Upload, models.UploadFilter]
	ListAll(ctx context.Context) ([]*models.Upload, error)
	Delete(ctx context.Context, id string) error
}

// ProductWithUpload is a product row joined with its owning upload's
// filename and timestamp, as used by price-history aggregation.
type ProductWithUpload struct {
	ID             string    `json:"id"`
	UploadID       string    `json:"upload_id"`
	Name           string    `json:"name"`
	TotalPrice     float64   `json:"total_price"`
	Category       *string   `json:"category,omitempty"`
	UploadFilename string    `json:"upload_filename"`
	UploadDate     time.Time `json:"upload_date"`
}

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUploadID(ctx context.Context, uploadID string) ([]*models.Product, error)
	ListWithUploads(ctx context.Context) ([]*ProductWithUpload, error)
	CountByUpload(ctx context.Context) (map[string]int64, error)
}
