package meeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// GetSummary returns the stored summary document.
func (s *Service) GetSummary(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error) {
	a, err := s.readable(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusSummarized || a.SummaryKey == nil {
		return nil, fmt.Errorf("summary of %s: %w", id.PK(), domain.ErrNotFound)
	}
	return s.download(ctx, *a.SummaryKey)
}

// GetTranscript returns the stored normalized transcript.
func (s *Service) GetTranscript(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error) {
	a, err := s.readable(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.TranscriptKey == nil {
		return nil, fmt.Errorf("transcript of %s: %w", id.PK(), domain.ErrNotFound)
	}
	return s.download(ctx, *a.TranscriptKey)
}

// RecordingURL signs a download URL for the recording. A nil expiresSec
// uses the configured default.
func (s *Service) RecordingURL(ctx context.Context, id domain.MeetingIdentifier, expiresSec *int) (*SignedURL, error) {
	if _, err := caller(ctx, id.OwnerEmail); err != nil {
		return nil, err
	}
	ttl, err := s.urlTTL(expiresSec)
	if err != nil {
		return nil, err
	}

	a, err := s.readable(ctx, id)
	if err != nil {
		return nil, err
	}

	key := paths.Derive(a.MeetingIdentifier, a.Ext).RecordingKey
	if a.RecordingKey != nil {
		key = *a.RecordingKey
	}

	url, err := s.store.PresignGet(ctx, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("presign recording %s: %w", id.PK(), err)
	}

	return &SignedURL{
		URL:          url,
		RecordingKey: key,
		ExpiresSec:   int(ttl.Seconds()),
	}, nil
}

// readable authorizes the caller, loads the artifact and rejects failed or
// still-processing artifacts.
func (s *Service) readable(ctx context.Context, id domain.MeetingIdentifier) (*domain.MeetingArtifact, error) {
	if _, err := caller(ctx, id.OwnerEmail); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	a, err := s.artifacts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if err := a.CheckReadable(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) download(ctx context.Context, key string) ([]byte, error) {
	body, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return body, nil
}
