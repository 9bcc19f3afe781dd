package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one purchased line item belonging to exactly one Upload.
// Table: products
// Name holds the raw parsed display string, never a normalized form.
// TotalPrice is stored as NUMERIC(14,2) so two-decimal currency values
// round-trip without precision loss.
// Category is NULL for uncategorized items.
// Rows are immutable after creation and removed only by cascading upload
// deletion.
type Product struct {
	ID         string  `gorm:"type:uuid;primaryKey" json:"id"`
	UploadID   string  `gorm:"type:uuid;not null;index" json:"upload_id"`
	Name       string  `gorm:"type:text;not null" json:"name"`
	TotalPrice float64 `gorm:"type:numeric(14,2);not null" json:"total_price"`
	Category   *string `gorm:"type:text" json:"category,omitempty"`

	// Relations
	Upload *Upload `gorm:"foreignKey:UploadID;references:ID;constraint:OnDelete:CASCADE" json:"upload,omitempty"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate ensures ID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID       *string `json:"id,omitempty"`
	UploadID *string `json:"upload_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}
