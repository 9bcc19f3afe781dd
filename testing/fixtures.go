package testing

import (
	"fmt"

	"github.com/cenovka/cenovka/models"
	"github.com/cenovka/cenovka/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateTestUpload creates an upload row for testing
func (tdb *TestDB) CreateTestUpload(filename string) (*models.Upload, error) {
	upload := &models.Upload{
		ID:          uuid.NewString(),
		Filename:    filename,
		UploadedAt:  utils.UTCNow(),
		ParseErrors: pq.StringArray{},
	}
	if err := tdb.DB.Create(upload).Error; err != nil {
		return nil, fmt.Errorf("failed to create test upload: %w", err)
	}
	return upload, nil
}

// CreateTestProduct creates a product row under the given upload for testing
func (tdb *TestDB) CreateTestProduct(uploadID, name string, totalPrice float64, category *string) (*models.Product, error) {
	product := &models.Product{
		ID:         uuid.NewString(),
		UploadID:   uploadID,
		Name:       name,
		TotalPrice: totalPrice,
		Category:   category,
	}
	if err := tdb.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}
