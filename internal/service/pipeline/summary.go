package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// GenerateSummary summarizes the stored transcript and stores the validated
// summary, moving the artifact through SUMMARIZING to SUMMARIZED.
func (s *Service) GenerateSummary(ctx context.Context, recordingKey string) (*domain.MeetingArtifact, error) {
	id, ext, err := paths.ParseRecordingKey(recordingKey)
	if err != nil {
		return nil, domain.NewValidationError("recording_key", err.Error())
	}

	artifact, err := s.artifacts.UpdateStatus(ctx, id, domain.StatusSummarizing)
	if err != nil {
		return nil, fmt.Errorf("update status %s: %w", id.PK(), err)
	}
	s.logStage(ctx, "summary started", artifact, StageGenerateSummary)

	data, err := s.store.Get(ctx, paths.Derive(id, ext).TranscriptKey)
	if err != nil {
		code := CodeTranscriptDownloadError
		if errors.Is(err, domain.ErrNotFound) {
			code = CodeTranscriptNotFound
		}
		return nil, s.fail(ctx, id, StageGenerateSummary, code, err)
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, s.fail(ctx, id, StageGenerateSummary, CodeTranscriptNotFound, fmt.Errorf("decode transcript: %w", err))
	}

	out, err := s.summarizer.Summarize(ctx, domain.SummarizationRequest{
		ModelID:     s.cfg.ModelID,
		Prompt:      buildPrompt(id, transcript),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
	})
	if err != nil {
		return nil, s.fail(ctx, id, StageGenerateSummary, CodeLLMError, err)
	}

	payload, err := parseSummary(out.OutputText)
	if err != nil {
		return nil, s.fail(ctx, id, StageGenerateSummary, CodeLLMInvalidOutput, err)
	}

	s.log.DebugContext(ctx, "summary generated",
		slog.String("pk", id.PK()),
		slog.Int("input_tokens", out.InputTokens),
		slog.Int("output_tokens", out.OutputTokens),
	)

	return s.saveSummary(ctx, id, ext, StageGenerateSummary, payload)
}

// PersistSummary validates and stores a summary produced by an external
// workflow, moving the artifact to SUMMARIZED.
func (s *Service) PersistSummary(ctx context.Context, recordingKey string, payload []byte) (*domain.MeetingArtifact, error) {
	id, ext, err := paths.ParseRecordingKey(recordingKey)
	if err != nil {
		return nil, domain.NewValidationError("recording_key", err.Error())
	}

	summary, err := domain.DecodeSummaryPayload(payload)
	if err != nil {
		return nil, s.fail(ctx, id, StagePersistSummary, CodeLLMInvalidOutput, err)
	}

	return s.saveSummary(ctx, id, ext, StagePersistSummary, summary)
}

func (s *Service) saveSummary(
	ctx context.Context,
	id domain.MeetingIdentifier,
	ext string,
	stage string,
	summary map[string]any,
) (*domain.MeetingArtifact, error) {
	body, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	key := paths.Derive(id, ext).SummaryKey
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, s.fail(ctx, id, stage, CodeSummaryUploadError, err)
	}

	artifact, err := s.artifacts.UpdateWithSummary(ctx, id, key, domain.StatusSummarized)
	if err != nil {
		return nil, fmt.Errorf("update with summary %s: %w", id.PK(), err)
	}

	s.logStage(ctx, "summary stored", artifact, stage)
	return artifact, nil
}

// parseSummary extracts the JSON object from model output and decodes it.
// Every failure is a *domain.SummaryPayloadValidationError.
func parseSummary(text string) (map[string]any, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, &domain.SummaryPayloadValidationError{Message: "Summarizer output contains no JSON object"}
	}
	return domain.DecodeSummaryPayload([]byte(raw))
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
