package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// IngestResult describes one ingested recording.
type IngestResult struct {
	PK           string                `json:"pk"`
	RecordingKey string                `json:"recording_key"`
	Status       domain.ArtifactStatus `json:"status"`
	ExecutionARN string                `json:"execution_arn,omitempty"`
}

// executionInput is the document handed to the external workflow.
type executionInput struct {
	RecordingKey string `json:"recording_key"`
	PK           string `json:"pk"`
	Bucket       string `json:"bucket"`
}

// Ingest registers every recording named by event and moves it to
// TRANSCRIBING. Records without a key or for another bucket are skipped.
// An unparseable key or a disallowed extension aborts the whole event.
func (s *Service) Ingest(ctx context.Context, event domain.StorageEvent) ([]IngestResult, error) {
	results := []IngestResult{}

	for _, rec := range event.Records {
		key := rec.Key()
		if key == "" {
			continue
		}
		if b := rec.Bucket(); b != "" && b != s.store.Bucket() {
			s.log.WarnContext(ctx, "ingest: foreign bucket skipped",
				slog.String("bucket", b),
				slog.String("key", key),
			)
			continue
		}

		id, ext, err := paths.ParseEventKey(key)
		if err != nil {
			return nil, domain.NewValidationError("key", err.Error())
		}
		if !s.extAllowed(ext) {
			return nil, domain.NewValidationError("ext", fmt.Sprintf("extension %s not allowed", ext))
		}

		recordingKey := paths.Derive(id, ext).RecordingKey
		artifact, err := s.artifacts.UpsertRecording(ctx, id, strings.ToLower(ext), recordingKey, domain.StatusTranscribing)
		if err != nil {
			return nil, fmt.Errorf("upsert recording %s: %w", id.PK(), err)
		}

		res := IngestResult{PK: id.PK(), RecordingKey: recordingKey, Status: artifact.Status}

		if s.workflow != nil {
			name := paths.UniqueJobName(id, paths.MaxExecutionNameLength)
			arn, err := s.workflow.StartExecution(ctx, name, executionInput{
				RecordingKey: recordingKey,
				PK:           id.PK(),
				Bucket:       s.store.Bucket(),
			})
			if err != nil {
				return nil, s.fail(ctx, id, StageIngest, CodePipelineStartError, err)
			}
			res.ExecutionARN = arn
		}

		s.logStage(ctx, "recording ingested", artifact, StageIngest)
		results = append(results, res)
	}

	return results, nil
}
