package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ListInput holds the parameters for listing meetings. An empty OwnerEmail
// means the caller.
type ListInput struct {
	OwnerEmail  string
	MeetingName *string
	Status      *domain.ArtifactStatus
	FromDate    *string
	ToDate      *string
	Page        int
	PageSize    int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.FromDate != nil && !validDate(*i.FromDate) {
		errs = append(errs, domain.FieldError{Field: "from_date", Message: "must be YYYY-MM-DD"})
	}
	if i.ToDate != nil && !validDate(*i.ToDate) {
		errs = append(errs, domain.FieldError{Field: "to_date", Message: "must be YYYY-MM-DD"})
	}
	if i.Page < 0 || i.Page > domain.MaxPage {
		errs = append(errs, domain.FieldError{Field: "page", Message: fmt.Sprintf("must be between 1 and %d", domain.MaxPage)})
	}
	if i.PageSize < 0 || i.PageSize > domain.MaxPageSize {
		errs = append(errs, domain.FieldError{Field: "page_size", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UploadURLInput holds the parameters for issuing an upload URL.
type UploadURLInput struct {
	MeetingName string
	MeetingDate string
	Filename    string
	ExpiresSec  *int
	ContentType string
}

// Validate checks the fields that do not depend on configuration.
func (i UploadURLInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.MeetingName) == "" {
		errs = append(errs, domain.FieldError{Field: "meeting_name", Message: "required"})
	}
	if !validDate(strings.TrimSpace(i.MeetingDate)) {
		errs = append(errs, domain.FieldError{Field: "meeting_date", Message: "must be YYYY-MM-DD"})
	}
	if strings.TrimSpace(i.Filename) == "" {
		errs = append(errs, domain.FieldError{Field: "filename", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
