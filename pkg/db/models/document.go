package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Document is one uploaded file attached to an application. The row must not
// outlive its blob; deletion removes the blob before the row.
type Document struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID              `gorm:"column:application_id;type:uuid;not null;index"`
	UploadedByID  uuid.UUID              `gorm:"column:uploaded_by_id;type:uuid;not null"`
	Category      enums.DocumentCategory `gorm:"column:category;type:text;not null"`
	FileName      string                 `gorm:"column:file_name;not null"`
	StoragePath   string                 `gorm:"column:storage_path;not null;unique"`
	MimeType      *string                `gorm:"column:mime_type"`
	SizeBytes     int64                  `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}
