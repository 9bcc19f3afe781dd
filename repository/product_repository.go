package repository

import (
	"context"

	"github.com/cenovka/cenovka/models"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ProductRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UploadID != nil {
		query = query.Where("upload_id = ?", *filter.UploadID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Product{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Product{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ByUploadID lists all products belonging to the given upload
func (r *ProductRepositoryImpl) ByUploadID(ctx context.Context, uploadID string) ([]*models.Product, error) {
	return r.ByFilter(ctx, models.ProductFilter{UploadID: &uploadID}, "id ASC", 0, 0)
}

// ListWithUploads returns every product joined with its owning upload's
// filename and timestamp, ordered by upload timestamp ascending so price
// histories come back in chronological order.
func (r *ProductRepositoryImpl) ListWithUploads(ctx context.Context) ([]*ProductWithUpload, error) {
	db := r.getDB(ctx)

	var rows []*ProductWithUpload
	err := db.Table("products").
		Select("products.id, products.upload_id, products.name, products.total_price, products.category, uploads.filename AS upload_filename, uploads.uploaded_at AS upload_date").
		Joins("INNER JOIN uploads ON uploads.id = products.upload_id").
		Order("uploads.uploaded_at ASC, products.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByUpload returns the number of products per upload id
func (r *ProductRepositoryImpl) CountByUpload(ctx context.Context) (map[string]int64, error) {
	db := r.getDB(ctx)

	var rows []struct {
		UploadID string
		Count    int64
	}
	err := db.Model(&models.Product{}).
		Select("upload_id, COUNT(*) AS count").
		Group("upload_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.UploadID] = row.Count
	}
	return counts, nil
}
