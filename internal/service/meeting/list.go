package meeting

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// List returns one page of the caller's meetings with signed URLs.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	owner, err := caller(ctx, input.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	filter := domain.ArtifactFilter{
		OwnerEmail:  &owner,
		MeetingName: input.MeetingName,
		Status:      input.Status,
		FromDate:    input.FromDate,
		ToDate:      input.ToDate,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}.Normalize()

	artifacts, total, err := s.artifacts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	items := make([]Item, len(artifacts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxPresignConcurrency)
	for i, a := range artifacts {
		g.Go(func() error {
			item, err := s.toItem(gctx, a)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *Service) toItem(ctx context.Context, a *domain.MeetingArtifact) (Item, error) {
	item := Item{
		MeetingIdentifier: a.MeetingIdentifier,
		Folder:            a.Folder(),
		Filename:          a.Filename(),
		Status:            a.Status,
		ErrorCode:         a.ErrorCode,
		ErrorMessage:      a.ErrorMessage,
		DurationSec:       a.DurationSec,
		Language:          a.Language,
		UpdatedAt:         a.UpdatedAt,
	}

	recordingKey := paths.Derive(a.MeetingIdentifier, a.Ext).RecordingKey
	if a.RecordingKey != nil {
		recordingKey = *a.RecordingKey
	}
	url, err := s.store.PresignGet(ctx, recordingKey, s.cfg.URLTTL)
	if err != nil {
		return Item{}, fmt.Errorf("presign recording %s: %w", a.PK(), err)
	}
	item.RecordingURL = &url

	if a.TranscriptKey != nil && a.Status.HasTranscript() {
		item.TranscriptURL = s.optionalURL(ctx, a, *a.TranscriptKey)
	}
	if a.SummaryKey != nil && a.Status == domain.StatusSummarized {
		item.SummaryURL = s.optionalURL(ctx, a, *a.SummaryKey)
	}
	return item, nil
}

func (s *Service) optionalURL(ctx context.Context, a *domain.MeetingArtifact, key string) *string {
	url, err := s.store.PresignGet(ctx, key, s.cfg.URLTTL)
	if err != nil {
		s.log.WarnContext(ctx, "presign skipped",
			slog.String("pk", a.PK()),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &url
}
