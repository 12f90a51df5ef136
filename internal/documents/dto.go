package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// View is the API projection of a document.
type View struct {
	ID            uuid.UUID              `json:"id"`
	ApplicationID uuid.UUID              `json:"application_id"`
	Category      enums.DocumentCategory `json:"category"`
	FileName      string                 `json:"file_name"`
	URL           string                 `json:"url"`
	MimeType      *string                `json:"mime_type,omitempty"`
	SizeBytes     int64                  `json:"size_bytes"`
	CreatedAt     time.Time              `json:"created_at"`
}

func (s *service) viewFromModel(doc *models.Document) View {
	return View{
		ID:            doc.ID,
		ApplicationID: doc.ApplicationID,
		Category:      doc.Category,
		FileName:      doc.FileName,
		URL:           s.blobs.PublicURL(doc.StoragePath),
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		CreatedAt:     doc.CreatedAt,
	}
}
