// Package model contains the value types shared by the client flows and the
// development backend.
package model

import (
	"time"
)

// UploadLanguage is the language tag attached to a document at upload time.
// The values are the wire values the backend expects in the "language" part.
type UploadLanguage string

const (
	UploadEnglish UploadLanguage = "eng"
	UploadArabic  UploadLanguage = "arabic"
	// UploadUnknown marks entries whose language the listing did not report.
	UploadUnknown UploadLanguage = ""

	// DefaultUploadLanguage is what the language selector shows for a fresh draft.
	DefaultUploadLanguage = UploadEnglish
)

// ParseUploadLanguage maps user input onto a supported upload tag.
func ParseUploadLanguage(s string) (UploadLanguage, bool) {
	switch UploadLanguage(s) {
	case UploadEnglish, UploadArabic:
		return UploadLanguage(s), true
	}
	return UploadUnknown, false
}

// FileEntry is one document known to the client. Name is a display key only;
// the backend is the authority on identity.
type FileEntry struct {
	Name     string         `json:"name"`
	Language UploadLanguage `json:"language,omitempty"`
	// RenderableLocation is set once a URL or local handle has been resolved.
	RenderableLocation string `json:"renderableLocation,omitempty"`
}

// DocumentStatus describes the text extraction lifecycle inside the
// development backend.
type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusComplete   DocumentStatus = "complete"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the development backend's record of an uploaded file.
type Document struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	MediaType string         `json:"mediaType"`
	Language  UploadLanguage `json:"language"`
	Size      int64          `json:"size"`
	// Data and Text stay out of JSON; they are served through dedicated routes.
	Data      []byte         `json:"-"`
	Text      string         `json:"-"`
	Status    DocumentStatus `json:"status"`
	Message   string         `json:"message,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
