package repository

import (
	"context"
	"fmt"

	"github.com/cenovka/cenovka/models"
	"gorm.io/gorm"
)

// UploadRepositoryImpl implements UploadRepository interface
type UploadRepositoryImpl struct {
	*BaseRepository[models.Upload, models.UploadFilter]
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Upload, models.UploadFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *UploadRepositoryImpl) applyFilter(query *gorm.DB, filter models.UploadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Filename != nil {
		query = query.Where("filename = ?", *filter.Filename)
	}
	if filter.UploadedAfter != nil {
		query = query.Where("uploaded_at > ?", *filter.UploadedAfter)
	}
	if filter.UploadedBefore != nil {
		query = query.Where("uploaded_at < ?", *filter.UploadedBefore)
	}
	return query
}

// ByFilter retrieves uploads based on filter criteria
func (r *UploadRepositoryImpl) ByFilter(ctx context.Context, filter models.UploadFilter, orderBy string, limit, offset int) ([]*models.Upload, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Upload{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "uploaded_at DESC, id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Upload
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of uploads matching the filter
func (r *UploadRepositoryImpl) Count(ctx context.Context, filter models.UploadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Upload{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListAll lists every upload, newest first
func (r *UploadRepositoryImpl) ListAll(ctx context.Context) ([]*models.Upload, error) {
	return r.ByFilter(ctx, models.UploadFilter{}, "uploaded_at DESC, id DESC", 0, 0)
}

// Delete removes an upload by id. Products referencing the upload are removed
// by the ON DELETE CASCADE constraint on products.upload_id.
func (r *UploadRepositoryImpl) Delete(ctx context.Context, id string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("id = ?", id).Delete(&models.Upload{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", id, err)
	}

	return nil
}
