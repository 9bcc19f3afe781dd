package models

import (
	"time"

	"github.com/cenovka/cenovka/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Upload represents one ingested batch of purchase line items from a single
// source spreadsheet.
// Table: uploads
// ID is a uuid string so identifiers stay opaque to clients.
// UploadedAt is set at creation and used for ordering across uploads.
// ParseErrors keeps the per-row messages for rows the parser skipped, stored
// as TEXT[] so the skip count stays reconstructable after ingestion.
type Upload struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string         `gorm:"type:varchar(255);not null" json:"filename"`
	UploadedAt  time.Time      `gorm:"not null;index;default:CURRENT_TIMESTAMP" json:"uploaded_at"`
	ParseErrors pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"parse_errors,omitempty"`

	// Relations
	Products []Product `gorm:"foreignKey:UploadID;references:ID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

func (Upload) TableName() string { return "uploads" }

// BeforeCreate ensures ID and UploadedAt are set
func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.UploadedAt.IsZero() {
		u.UploadedAt = utils.UTCNow()
	}
	if u.ParseErrors == nil {
		u.ParseErrors = pq.StringArray{}
	}
	return nil
}

// UploadFilter represents filter criteria for upload queries
type UploadFilter struct {
	ID             *string    `json:"id,omitempty"`
	Filename       *string    `json:"filename,omitempty"`
	UploadedAfter  *time.Time `json:"uploaded_after,omitempty"`
	UploadedBefore *time.Time `json:"uploaded_before,omitempty"`
}
