// Package pipeline drives a meeting recording through transcription and
// summarization. Each stage is invoked independently by an external
// scheduler and records every failure on the artifact before returning it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Stage names, used in logs and StageError.
const (
	StageIngest               = "ingest"
	StageStartTranscription   = "start-transcription"
	StagePollTranscription    = "poll-transcription"
	StageStoreTranscription   = "store-transcription"
	StageGenerateSummary      = "generate-summary"
	StagePersistTranscription = "persist-transcription"
	StagePersistSummary       = "persist-summary"
)

// Error codes persisted on failed artifacts.
const (
	CodePipelineStartError      = "PIPELINE_START_ERROR"
	CodeTranscribeStartError    = "TRANSCRIBE_START_ERROR"
	CodeTranscribePollError     = "TRANSCRIBE_POLL_ERROR"
	CodeTranscribeFailed        = "TRANSCRIBE_FAILED"
	CodeTranscribeNoOutput      = "TRANSCRIBE_NO_OUTPUT"
	CodeTranscribeDownloadError = "TRANSCRIBE_DOWNLOAD_ERROR"
	CodeTranscriptInvalid       = "TRANSCRIPT_INVALID"
	CodeTranscriptUploadError   = "TRANSCRIPT_UPLOAD_ERROR"
	CodeTranscriptNotFound      = "TRANSCRIPT_NOT_FOUND"
	CodeTranscriptDownloadError = "TRANSCRIPT_DOWNLOAD_ERROR"
	CodeLLMError                = "LLM_ERROR"
	CodeLLMInvalidOutput        = "LLM_INVALID_OUTPUT"
	CodeSummaryUploadError      = "SUMMARY_UPLOAD_ERROR"
)

type artifactRepo interface {
	UpsertRecording(ctx context.Context, id domain.MeetingIdentifier, ext, recordingKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	UpdateWithTranscription(ctx context.Context, id domain.MeetingIdentifier, transcriptKey string, status domain.ArtifactStatus, durationSec *float64, language *string) (*domain.MeetingArtifact, error)
	UpdateWithSummary(ctx context.Context, id domain.MeetingIdentifier, summaryKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	UpdateStatus(ctx context.Context, id domain.MeetingIdentifier, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	MarkFailed(ctx context.Context, id domain.MeetingIdentifier, f domain.Failure) (*domain.MeetingArtifact, error)
}

type objectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type transcriber interface {
	StartJob(ctx context.Context, req domain.TranscriptionJobRequest) error
	GetJob(ctx context.Context, jobName string) (domain.TranscriptionJobResult, error)
}

type summarizer interface {
	Summarize(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error)
}

type workflowStarter interface {
	StartExecution(ctx context.Context, name string, input any) (string, error)
}

// Config holds the pipeline settings taken from the application config.
type Config struct {
	AllowedExts     []string
	LanguageCode    string
	LanguageOptions []string
	PollTimeout     time.Duration

	ModelID     string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ConfigFrom extracts the pipeline settings from cfg.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		AllowedExts:     cfg.Pipeline.AllowedExts(),
		LanguageCode:    cfg.Transcribe.LanguageCode,
		LanguageOptions: cfg.Transcribe.LanguageOptions(),
		PollTimeout:     cfg.Transcribe.PollTimeout,
		ModelID:         cfg.LLM.ModelID,
		MaxTokens:       cfg.LLM.MaxTokens,
		Temperature:     cfg.LLM.Temperature,
		TopP:            cfg.LLM.TopP,
	}
}

// Service implements the pipeline stages.
type Service struct {
	log         *slog.Logger
	cfg         Config
	artifacts   artifactRepo
	store       objectStore
	transcriber transcriber
	summarizer  summarizer
	workflow    workflowStarter
	now         func() time.Time
}

// NewService creates a new pipeline service. workflow may be nil, in which
// case ingest does not start an external execution.
func NewService(
	log *slog.Logger,
	cfg Config,
	artifacts artifactRepo,
	store objectStore,
	transcriber transcriber,
	summarizer summarizer,
	workflow workflowStarter,
) *Service {
	return &Service{
		log:         log.With("service", "pipeline"),
		cfg:         cfg,
		artifacts:   artifacts,
		store:       store,
		transcriber: transcriber,
		summarizer:  summarizer,
		workflow:    workflow,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// fail records the failure on the artifact and returns a StageError wrapping
// cause. The write ignores cancellation of ctx so that a timed-out stage
// still leaves the artifact in FAILED.
func (s *Service) fail(ctx context.Context, id domain.MeetingIdentifier, stage, code string, cause error) error {
	stageErr := &domain.StageError{Stage: stage, Code: code, Err: cause}

	s.log.ErrorContext(ctx, "stage failed",
		slog.String("pk", id.PK()),
		slog.String("stage", stage),
		slog.String("error_code", code),
		slog.String("error", cause.Error()),
	)

	_, err := s.artifacts.MarkFailed(context.WithoutCancel(ctx), id, domain.Failure{
		Code:    code,
		Message: cause.Error(),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "mark failed",
			slog.String("pk", id.PK()),
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
		return errors.Join(stageErr, fmt.Errorf("mark failed: %w", err))
	}
	return stageErr
}

func (s *Service) extAllowed(ext string) bool {
	return slices.Contains(s.cfg.AllowedExts, strings.ToLower(ext))
}

func (s *Service) logStage(ctx context.Context, msg string, a *domain.MeetingArtifact, stage string) {
	s.log.InfoContext(ctx, msg,
		slog.String("pk", a.PK()),
		slog.String("stage", stage),
		slog.String("status", a.Status.String()),
	)
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
