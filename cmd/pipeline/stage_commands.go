package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/service/pipeline"
)

// stageRunner is the pipeline surface driven by the stage commands.
type stageRunner interface {
	Ingest(ctx context.Context, event domain.StorageEvent) ([]pipeline.IngestResult, error)
	StartTranscription(ctx context.Context, recordingKey string) (domain.TranscriptionJobHandle, error)
	PollTranscription(ctx context.Context, handle domain.TranscriptionJobHandle) (domain.TranscriptionJobResult, error)
	StoreTranscription(ctx context.Context, in pipeline.StoreTranscriptionInput) (*domain.MeetingArtifact, error)
	GenerateSummary(ctx context.Context, recordingKey string) (*domain.MeetingArtifact, error)
	PersistTranscription(ctx context.Context, recordingKey string, payload []byte) (*domain.MeetingArtifact, error)
	PersistSummary(ctx context.Context, recordingKey string, payload []byte) (*domain.MeetingArtifact, error)
}

// stageEnv resolves the runner and the poll schedule lazily.
type stageEnv interface {
	runner(ctx context.Context) (stageRunner, error)
	pollSchedule() (interval, deadline time.Duration, err error)
}

func (c *commandContext) runner(ctx context.Context) (stageRunner, error) {
	deps, err := c.ensureDeps(ctx)
	if err != nil {
		return nil, err
	}
	return deps.Pipeline, nil
}

func (c *commandContext) pollSchedule() (time.Duration, time.Duration, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return 0, 0, err
	}
	return cfg.Transcribe.PollInterval, cfg.Transcribe.PollDeadline, nil
}

func newStageCommands(env stageEnv) []*cobra.Command {
	return []*cobra.Command{
		newIngestCommand(env),
		newStartTranscriptionCommand(env),
		newPollTranscriptionCommand(env),
		newStoreTranscriptionCommand(env),
		newGenerateSummaryCommand(env),
		newPersistCommand(env, "persist-transcription", "Store a normalized transcript document",
			func(r stageRunner) func(context.Context, string, []byte) (*domain.MeetingArtifact, error) {
				return r.PersistTranscription
			}),
		newPersistCommand(env, "persist-summary", "Validate and store a summary document",
			func(r stageRunner) func(context.Context, string, []byte) (*domain.MeetingArtifact, error) {
				return r.PersistSummary
			}),
	}
}

func newIngestCommand(env stageEnv) *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Register recordings from an object-created notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, eventPath)
			if err != nil {
				return err
			}
			var event domain.StorageEvent
			if err := json.Unmarshal(data, &event); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}

			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			results, err := r.Ingest(cmd.Context(), event)
			if err != nil {
				return err
			}
			if results == nil {
				results = []pipeline.IngestResult{}
			}
			return writeJSON(cmd, results)
		},
	}
	cmd.Flags().StringVar(&eventPath, "event", "-", "Notification JSON file, or - for stdin")
	return cmd
}

func newStartTranscriptionCommand(env stageEnv) *cobra.Command {
	var recordingKey string

	cmd := &cobra.Command{
		Use:   "start-transcription",
		Short: "Submit the transcription job for a recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			handle, err := r.StartTranscription(cmd.Context(), recordingKey)
			if err != nil {
				return err
			}
			return writeJSON(cmd, handle)
		},
	}
	requiredString(cmd, &recordingKey, "recording-key", "Object key of the recording")
	return cmd
}

func newPollTranscriptionCommand(env stageEnv) *cobra.Command {
	var (
		handle domain.TranscriptionJobHandle
		wait   bool
	)

	cmd := &cobra.Command{
		Use:   "poll-transcription",
		Short: "Check a transcription job, optionally until it finishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			poll := func(ctx context.Context) (domain.TranscriptionJobResult, error) {
				return r.PollTranscription(ctx, handle)
			}

			var res domain.TranscriptionJobResult
			if wait {
				interval, deadline, serr := env.pollSchedule()
				if serr != nil {
					return serr
				}
				res, err = waitForJob(cmd.Context(), poll, interval, deadline)
			} else {
				res, err = poll(cmd.Context())
			}

			if res.Status != "" {
				if werr := writeJSON(cmd, res); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
	requiredString(cmd, &handle.JobName, "job-name", "Transcription job name")
	requiredString(cmd, &handle.RecordingKey, "recording-key", "Object key of the recording")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll on the configured interval until the job finishes or the deadline passes")
	return cmd
}

func newStoreTranscriptionCommand(env stageEnv) *cobra.Command {
	var in pipeline.StoreTranscriptionInput

	cmd := &cobra.Command{
		Use:   "store-transcription",
		Short: "Normalize and store the output of a finished transcription job",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			a, err := r.StoreTranscription(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd, a)
		},
	}
	requiredString(cmd, &in.RecordingKey, "recording-key", "Object key of the recording")
	cmd.Flags().StringVar(&in.TranscriptURI, "transcript-uri", "", "URI of the raw job output")
	cmd.Flags().StringVar(&in.Language, "language", "", "Detected language code")
	return cmd
}

func newGenerateSummaryCommand(env stageEnv) *cobra.Command {
	var recordingKey string

	cmd := &cobra.Command{
		Use:   "generate-summary",
		Short: "Summarize the stored transcript of a recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			a, err := r.GenerateSummary(cmd.Context(), recordingKey)
			if err != nil {
				return err
			}
			return writeJSON(cmd, a)
		},
	}
	requiredString(cmd, &recordingKey, "recording-key", "Object key of the recording")
	return cmd
}

func newPersistCommand(
	env stageEnv,
	use, short string,
	pick func(stageRunner) func(context.Context, string, []byte) (*domain.MeetingArtifact, error),
) *cobra.Command {
	var recordingKey, payloadPath string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(cmd, payloadPath)
			if err != nil {
				return err
			}
			r, err := env.runner(cmd.Context())
			if err != nil {
				return err
			}
			a, err := pick(r)(cmd.Context(), recordingKey, payload)
			if err != nil {
				return err
			}
			return writeJSON(cmd, a)
		},
	}
	requiredString(cmd, &recordingKey, "recording-key", "Object key of the recording")
	cmd.Flags().StringVar(&payloadPath, "payload", "-", "Document JSON file, or - for stdin")
	return cmd
}

func requiredString(cmd *cobra.Command, p *string, name, usage string) {
	cmd.Flags().StringVar(p, name, "", usage)
	_ = cmd.MarkFlagRequired(name)
}

// errPollDeadline is returned when a job is still running at the deadline.
var errPollDeadline = errors.New("transcription still in progress at deadline")

// waitForJob polls until the job leaves IN_PROGRESS, poll fails or the
// deadline passes. The deadline is only checked between polls so a poll in
// flight is never cut short by it.
func waitForJob(
	ctx context.Context,
	poll func(context.Context) (domain.TranscriptionJobResult, error),
	interval, deadline time.Duration,
) (domain.TranscriptionJobResult, error) {
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := poll(ctx)
		if err != nil || res.Status != domain.TranscriptionInProgress {
			return res, err
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-timer.C:
			return res, fmt.Errorf("%w (%s)", errPollDeadline, deadline)
		case <-ticker.C:
		}
	}
}
