package entities

import "time"

// Document is the file the user picked for generation.
// Only a reference to the Telegram file is kept; bytes are fetched on submit.
type Document struct {
	FileID     string    `json:"file_id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type,omitempty"`
	Size       int64     `json:"size"`
	Pages      int       `json:"pages,omitempty"` // 0 when unknown
	SelectedAt time.Time `json:"selected_at"`
}

// NewDocument creates a document reference stamped with the current time.
func NewDocument(fileID, fileName, mimeType string, size int64) *Document {
	return &Document{
		FileID:     fileID,
		FileName:   fileName,
		MimeType:   mimeType,
		Size:       size,
		SelectedAt: time.Now(),
	}
}
