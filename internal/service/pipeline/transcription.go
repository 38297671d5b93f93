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

// mediaFormats maps recording extensions to transcription media formats.
// Extensions not listed are submitted without a format.
var mediaFormats = map[string]string{
	".mp3":  "mp3",
	".mp4":  "mp4",
	".wav":  "wav",
	".flac": "flac",
	".m4a":  "m4a",
	".ogg":  "ogg",
	".amr":  "amr",
	".webm": "webm",
}

// StartTranscription submits a transcription job for the recording.
func (s *Service) StartTranscription(ctx context.Context, recordingKey string) (domain.TranscriptionJobHandle, error) {
	id, ext, err := paths.ParseRecordingKey(recordingKey)
	if err != nil {
		return domain.TranscriptionJobHandle{}, domain.NewValidationError("recording_key", err.Error())
	}

	bucket := s.store.Bucket()
	p := paths.Derive(id, ext)
	req := domain.TranscriptionJobRequest{
		JobName:         paths.UniqueJobName(id, paths.MaxJobNameLength),
		MediaURI:        paths.ObjectURI(bucket, p.RecordingKey),
		MediaFormat:     mediaFormats[strings.ToLower(ext)],
		LanguageCode:    s.cfg.LanguageCode,
		LanguageOptions: s.cfg.LanguageOptions,
		OutputBucket:    bucket,
		OutputKey:       p.TranscriptOutputPrefix,
	}

	if err := s.transcriber.StartJob(ctx, req); err != nil {
		return domain.TranscriptionJobHandle{}, s.fail(ctx, id, StageStartTranscription, CodeTranscribeStartError, err)
	}

	s.log.InfoContext(ctx, "transcription started",
		slog.String("pk", id.PK()),
		slog.String("stage", StageStartTranscription),
		slog.String("job_name", req.JobName),
	)

	return domain.TranscriptionJobHandle{
		JobName:      req.JobName,
		RecordingKey: p.RecordingKey,
		StartedAt:    s.now(),
	}, nil
}

// PollTranscription checks the job once, bounded by the configured poll
// timeout. In-progress and completed jobs leave the artifact untouched; a
// failed job is recorded and the result is returned alongside the error.
func (s *Service) PollTranscription(ctx context.Context, handle domain.TranscriptionJobHandle) (domain.TranscriptionJobResult, error) {
	id, _, err := paths.ParseRecordingKey(handle.RecordingKey)
	if err != nil {
		return domain.TranscriptionJobResult{}, domain.NewValidationError("recording_key", err.Error())
	}
	if handle.JobName == "" {
		return domain.TranscriptionJobResult{}, domain.NewValidationError("job_name", "required")
	}

	pollCtx := ctx
	if s.cfg.PollTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, s.cfg.PollTimeout)
		defer cancel()
	}

	res, err := s.transcriber.GetJob(pollCtx, handle.JobName)
	if err != nil {
		return domain.TranscriptionJobResult{}, s.fail(ctx, id, StagePollTranscription, CodeTranscribePollError, err)
	}

	switch res.Status {
	case domain.TranscriptionFailed:
		reason := res.FailureReason
		if reason == "" {
			reason = "transcription job failed"
		}
		return res, s.fail(ctx, id, StagePollTranscription, CodeTranscribeFailed, errors.New(reason))
	case domain.TranscriptionCompleted:
		s.log.InfoContext(ctx, "transcription completed",
			slog.String("pk", id.PK()),
			slog.String("stage", StagePollTranscription),
			slog.String("job_name", handle.JobName),
			slog.String("language", res.Language),
		)
	default:
		s.log.DebugContext(ctx, "transcription in progress",
			slog.String("pk", id.PK()),
			slog.String("job_name", handle.JobName),
		)
	}
	return res, nil
}

// StoreTranscriptionInput names the finished job output to store.
type StoreTranscriptionInput struct {
	RecordingKey  string `json:"recording_key"`
	TranscriptURI string `json:"transcript_uri"`
	Language      string `json:"language,omitempty"`
}

// StoreTranscription downloads the raw job output, normalizes it and stores
// it at the transcript key, moving the artifact to TRANSCRIBED.
func (s *Service) StoreTranscription(ctx context.Context, in StoreTranscriptionInput) (*domain.MeetingArtifact, error) {
	id, ext, err := paths.ParseRecordingKey(in.RecordingKey)
	if err != nil {
		return nil, domain.NewValidationError("recording_key", err.Error())
	}

	uri := strings.TrimSpace(in.TranscriptURI)
	if uri == "" {
		return nil, s.fail(ctx, id, StageStoreTranscription, CodeTranscribeNoOutput,
			errors.New("transcription job completed without a transcript URI"))
	}

	transcript, err := s.downloadRawTranscript(ctx, uri, in.Language)
	if err != nil {
		return nil, s.fail(ctx, id, StageStoreTranscription, CodeTranscribeDownloadError, err)
	}

	return s.saveTranscript(ctx, id, ext, StageStoreTranscription, transcript)
}

func (s *Service) downloadRawTranscript(ctx context.Context, uri, language string) (domain.Transcript, error) {
	bucket, key, err := paths.ParseObjectURI(uri)
	if err != nil {
		return domain.Transcript{}, err
	}
	if bucket != s.store.Bucket() {
		return domain.Transcript{}, fmt.Errorf("transcript bucket %q differs from %q", bucket, s.store.Bucket())
	}

	data, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.Transcript{}, err
	}

	raw, err := domain.ParseRawTranscript(data)
	if err != nil {
		return domain.Transcript{}, err
	}
	return raw.Normalize(language)
}

// PersistTranscription stores an already normalized transcript produced by
// an external workflow and moves the artifact to TRANSCRIBED.
func (s *Service) PersistTranscription(ctx context.Context, recordingKey string, payload []byte) (*domain.MeetingArtifact, error) {
	id, ext, err := paths.ParseRecordingKey(recordingKey)
	if err != nil {
		return nil, domain.NewValidationError("recording_key", err.Error())
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(payload, &transcript); err != nil {
		return nil, s.fail(ctx, id, StagePersistTranscription, CodeTranscriptInvalid, fmt.Errorf("decode transcript: %w", err))
	}
	if err := transcript.Validate(); err != nil {
		return nil, s.fail(ctx, id, StagePersistTranscription, CodeTranscriptInvalid, err)
	}

	return s.saveTranscript(ctx, id, ext, StagePersistTranscription, transcript)
}

func (s *Service) saveTranscript(
	ctx context.Context,
	id domain.MeetingIdentifier,
	ext string,
	stage string,
	transcript domain.Transcript,
) (*domain.MeetingArtifact, error) {
	body, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}

	key := paths.Derive(id, ext).TranscriptKey
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, s.fail(ctx, id, stage, CodeTranscriptUploadError, err)
	}

	duration := transcript.DurationSec
	artifact, err := s.artifacts.UpdateWithTranscription(ctx, id, key, domain.StatusTranscribed,
		&duration, stringOrNil(transcript.Language))
	if err != nil {
		return nil, fmt.Errorf("update with transcription %s: %w", id.PK(), err)
	}

	s.logStage(ctx, "transcription stored", artifact, stage)
	return artifact, nil
}
