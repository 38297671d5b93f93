package meeting

import (
	"time"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Item is one listed meeting with signed download URLs.
type Item struct {
	domain.MeetingIdentifier

	Folder        string
	Filename      string
	Status        domain.ArtifactStatus
	RecordingURL  *string
	TranscriptURL *string
	SummaryURL    *string
	ErrorCode     *string
	ErrorMessage  *string
	DurationSec   *float64
	Language      *string
	UpdatedAt     time.Time
}

// ListResult is one page of meetings.
type ListResult struct {
	Items    []Item
	Total    int
	Page     int
	PageSize int
}

// UploadURL is a signed write URL for a new recording.
type UploadURL struct {
	URL          string
	RecordingKey string
	Status       domain.ArtifactStatus
	ExpiresSec   int
}

// SignedURL is a signed read URL for a stored recording.
type SignedURL struct {
	URL          string
	RecordingKey string
	ExpiresSec   int
}
