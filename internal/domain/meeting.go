package domain

import (
	"strings"
	"time"
)

// KeySeparator joins identifier parts into the artifact primary key.
const KeySeparator = "#"

// FolderSeparator joins meeting name and date into the storage folder.
const FolderSeparator = "_"

// MeetingIdentifier is the natural key of one meeting recording.
type MeetingIdentifier struct {
	OwnerEmail  string `json:"owner_email"`
	MeetingName string `json:"meeting_name"`
	MeetingDate string `json:"meeting_date"`
	Basename    string `json:"basename"`
}

// NewMeetingIdentifier trims the parts and validates the result.
func NewMeetingIdentifier(owner, name, date, basename string) (MeetingIdentifier, error) {
	id := MeetingIdentifier{
		OwnerEmail:  strings.TrimSpace(owner),
		MeetingName: strings.TrimSpace(name),
		MeetingDate: strings.TrimSpace(date),
		Basename:    strings.TrimSpace(basename),
	}
	if err := id.Validate(); err != nil {
		return MeetingIdentifier{}, err
	}
	return id, nil
}

// Validate checks all fields and collects all errors.
func (id MeetingIdentifier) Validate() error {
	var errs []FieldError

	check := func(field, value string, folderPart bool) {
		switch {
		case value == "":
			errs = append(errs, FieldError{Field: field, Message: "required"})
		case strings.Contains(value, KeySeparator):
			errs = append(errs, FieldError{Field: field, Message: "must not contain '#'"})
		case strings.ContainsAny(value, `/\`):
			errs = append(errs, FieldError{Field: field, Message: "must not contain path separators"})
		case folderPart && strings.Contains(value, FolderSeparator):
			errs = append(errs, FieldError{Field: field, Message: "must not contain '_'"})
		}
	}

	check("owner_email", id.OwnerEmail, false)
	check("meeting_name", id.MeetingName, true)
	check("meeting_date", id.MeetingDate, true)
	check("basename", id.Basename, false)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PK returns the composite primary key owner#name#date#basename.
func (id MeetingIdentifier) PK() string {
	return strings.Join([]string{id.OwnerEmail, id.MeetingName, id.MeetingDate, id.Basename}, KeySeparator)
}

// Folder returns the storage folder name_date.
func (id MeetingIdentifier) Folder() string {
	return id.MeetingName + FolderSeparator + id.MeetingDate
}

func (id MeetingIdentifier) String() string { return id.PK() }

// MeetingArtifact is the lifecycle record of one meeting recording.
type MeetingArtifact struct {
	MeetingIdentifier

	Ext           string         `json:"ext"`
	Status        ArtifactStatus `json:"status"`
	RecordingKey  *string        `json:"recording_key,omitempty"`
	TranscriptKey *string        `json:"transcript_key,omitempty"`
	SummaryKey    *string        `json:"summary_key,omitempty"`
	ErrorCode     *string        `json:"error_code,omitempty"`
	ErrorMessage  *string        `json:"error_message,omitempty"`
	DurationSec   *float64       `json:"duration_sec,omitempty"`
	Language      *string        `json:"language,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Filename returns basename plus extension.
func (a *MeetingArtifact) Filename() string {
	return a.Basename + a.Ext
}

// CheckReadable returns a PipelineFailedError for FAILED artifacts and a
// ProcessingError while the pipeline is still running.
func (a *MeetingArtifact) CheckReadable() error {
	if a.Status == StatusFailed {
		return &PipelineFailedError{Code: deref(a.ErrorCode), Message: deref(a.ErrorMessage)}
	}
	if a.Status.IsProcessing() {
		return &ProcessingError{Status: a.Status}
	}
	return nil
}

// Failure describes a transition into a failed state. Empty Code or Message
// leave the stored values untouched.
type Failure struct {
	Status  ArtifactStatus
	Code    string
	Message string
}

// ArtifactFilter contains filtering/pagination parameters for artifact listing.
type ArtifactFilter struct {
	OwnerEmail  *string
	MeetingName *string
	Status      *ArtifactStatus
	FromDate    *string
	ToDate      *string
	Page        int
	PageSize    int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100_000
)

// Normalize applies pagination defaults and caps.
func (f ArtifactFilter) Normalize() ArtifactFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	return f
}

// Offset returns the number of rows skipped before the current page.
func (f ArtifactFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
