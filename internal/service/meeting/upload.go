package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// CreateUploadURL registers a recording for the caller in UPLOADED status
// and signs a write URL for its canonical key.
func (s *Service) CreateUploadURL(ctx context.Context, input UploadURLInput) (*UploadURL, error) {
	owner, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	basename, ext, err := paths.SplitFilename(input.Filename)
	if err != nil {
		return nil, domain.NewValidationError("filename", err.Error())
	}
	if !s.extAllowed(ext) {
		return nil, domain.NewValidationError("filename", fmt.Sprintf("extension %s not allowed", ext))
	}
	ext = strings.ToLower(ext)

	id, err := domain.NewMeetingIdentifier(owner, input.MeetingName, input.MeetingDate, basename)
	if err != nil {
		return nil, err
	}

	ttl, err := s.urlTTL(input.ExpiresSec)
	if err != nil {
		return nil, err
	}

	key := paths.Derive(id, ext).RecordingKey
	a, err := s.artifacts.UpsertRecording(ctx, id, ext, key, domain.StatusUploaded)
	if err != nil {
		return nil, fmt.Errorf("upsert recording %s: %w", id.PK(), err)
	}

	url, err := s.store.PresignPut(ctx, key, strings.TrimSpace(input.ContentType), ttl)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", id.PK(), err)
	}

	s.log.InfoContext(ctx, "upload url issued",
		slog.String("pk", id.PK()),
		slog.String("recording_key", key),
	)

	return &UploadURL{
		URL:          url,
		RecordingKey: key,
		Status:       a.Status,
		ExpiresSec:   int(ttl.Seconds()),
	}, nil
}
