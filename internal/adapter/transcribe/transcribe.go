// Package transcribe runs speech-to-text jobs on Amazon Transcribe.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/aws/smithy-go"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

type jobAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// Client starts and inspects transcription jobs.
type Client struct {
	api jobAPI
	log *slog.Logger
}

// NewClient builds a Client from an AWS config.
func NewClient(awsCfg aws.Config, logger *slog.Logger) *Client {
	return New(transcribe.NewFromConfig(awsCfg), logger)
}

// New wraps an existing Transcribe API client.
func New(api jobAPI, logger *slog.Logger) *Client {
	return &Client{api: api, log: logger.With("adapter", "transcribe")}
}

// StartJob submits req. Language is forced when req.LanguageCode is set,
// otherwise the service identifies it, optionally among req.LanguageOptions.
func (c *Client) StartJob(ctx context.Context, req domain.TranscriptionJobRequest) error {
	in := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.JobName),
		Media:                &types.Media{MediaFileUri: aws.String(req.MediaURI)},
		OutputBucketName:     aws.String(req.OutputBucket),
	}
	if req.OutputKey != "" {
		in.OutputKey = aws.String(req.OutputKey)
	}
	if req.MediaFormat != "" {
		in.MediaFormat = types.MediaFormat(req.MediaFormat)
	}

	if req.LanguageCode != "" {
		in.LanguageCode = types.LanguageCode(req.LanguageCode)
	} else {
		in.IdentifyLanguage = aws.Bool(true)
		for _, opt := range req.LanguageOptions {
			in.LanguageOptions = append(in.LanguageOptions, types.LanguageCode(opt))
		}
	}

	if _, err := c.api.StartTranscriptionJob(ctx, in); err != nil {
		return wrapError("start job "+req.JobName, err)
	}

	c.log.InfoContext(ctx, "transcription job started",
		slog.String("job_name", req.JobName),
		slog.String("media_uri", req.MediaURI),
		slog.String("media_format", req.MediaFormat),
	)
	return nil
}

// GetJob returns the current state of jobName. QUEUED is reported as
// domain.TranscriptionInProgress.
func (c *Client) GetJob(ctx context.Context, jobName string) (domain.TranscriptionJobResult, error) {
	out, err := c.api.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return domain.TranscriptionJobResult{}, wrapError("get job "+jobName, err)
	}
	if out.TranscriptionJob == nil {
		return domain.TranscriptionJobResult{}, fmt.Errorf("transcribe: get job %s: empty response: %w", jobName, domain.ErrExternalService)
	}

	job := out.TranscriptionJob
	result := domain.TranscriptionJobResult{
		JobName:       jobName,
		Language:      string(job.LanguageCode),
		FailureReason: aws.ToString(job.FailureReason),
	}

	switch job.TranscriptionJobStatus {
	case types.TranscriptionJobStatusCompleted:
		result.Status = domain.TranscriptionCompleted
		if job.Transcript != nil {
			result.TranscriptURI = aws.ToString(job.Transcript.TranscriptFileUri)
		}
	case types.TranscriptionJobStatusFailed:
		result.Status = domain.TranscriptionFailed
	default:
		result.Status = domain.TranscriptionInProgress
	}

	c.log.DebugContext(ctx, "transcription job polled",
		slog.String("job_name", jobName),
		slog.String("status", string(job.TranscriptionJobStatus)),
	)
	return result, nil
}

func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("transcribe: %s: %w", op, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		return fmt.Errorf("transcribe: %s: %w: %w", op, domain.ErrNotFound, err)
	}
	return fmt.Errorf("transcribe: %s: %w: %w", op, domain.ErrExternalService, err)
}
