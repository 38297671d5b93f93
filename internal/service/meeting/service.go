// Package meeting implements the read and upload use-cases behind the
// REST surface. Every operation is scoped to the authenticated caller.
package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/pkg/ctxutil"
)

// MaxPresignConcurrency bounds concurrent URL signing while building a page.
const MaxPresignConcurrency = 8

type artifactRepo interface {
	Get(ctx context.Context, id domain.MeetingIdentifier) (*domain.MeetingArtifact, error)
	List(ctx context.Context, filter domain.ArtifactFilter) ([]*domain.MeetingArtifact, int, error)
	UpsertRecording(ctx context.Context, id domain.MeetingIdentifier, ext, recordingKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
}

type objectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// Config holds URL and upload settings.
type Config struct {
	AllowedExts []string
	URLTTL      time.Duration
	MinURLTTL   time.Duration
	MaxURLTTL   time.Duration
}

// ConfigFrom extracts the meeting service settings from cfg.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		AllowedExts: cfg.Pipeline.AllowedExts(),
		URLTTL:      cfg.Storage.URLTTL,
		MinURLTTL:   cfg.Storage.MinURLTTL,
		MaxURLTTL:   cfg.Storage.MaxURLTTL,
	}
}

// Service provides meeting read and upload operations.
type Service struct {
	log       *slog.Logger
	cfg       Config
	artifacts artifactRepo
	store     objectStore
}

// NewService creates a new meeting service.
func NewService(
	log *slog.Logger,
	cfg Config,
	artifacts artifactRepo,
	store objectStore,
) *Service {
	return &Service{
		log:       log.With("service", "meeting"),
		cfg:       cfg,
		artifacts: artifacts,
		store:     store,
	}
}

// caller returns the authenticated e-mail. A non-empty owner must match it.
func caller(ctx context.Context, owner string) (string, error) {
	email, ok := ctxutil.UserEmailFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if owner != "" && owner != email {
		return "", domain.ErrForbidden
	}
	return email, nil
}

// urlTTL resolves an optional expiry in seconds against the configured bounds.
func (s *Service) urlTTL(expiresSec *int) (time.Duration, error) {
	if expiresSec == nil {
		return s.cfg.URLTTL, nil
	}
	minSec, maxSec := int64(s.cfg.MinURLTTL/time.Second), int64(s.cfg.MaxURLTTL/time.Second)
	sec := int64(*expiresSec)
	if sec < minSec || sec > maxSec {
		return 0, domain.NewValidationError("expires_sec", fmt.Sprintf("must be between %d and %d", minSec, maxSec))
	}
	return time.Duration(sec) * time.Second, nil
}

func (s *Service) extAllowed(ext string) bool {
	return slices.Contains(s.cfg.AllowedExts, strings.ToLower(ext))
}
