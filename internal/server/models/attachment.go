package models

import "time"

// Attachment upload statuses.
const (
	AttachmentStatusPending  = "pending"
	AttachmentStatusUploaded = "uploaded"
)

// Attachment records a receipt/photo blob kept in object storage. The
// server only ever hands out presigned URLs; blob bytes never pass
// through it.
type Attachment struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	StorageKey   string    `json:"-"`
	UploadStatus string    `json:"upload_status"`
	CreatedAt    time.Time `json:"created_at"`
}
