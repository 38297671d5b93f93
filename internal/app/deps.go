package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/meetings-backend/internal/adapter/llm"
	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres"
	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres/artifact"
	"github.com/heartmarshall/meetings-backend/internal/adapter/storage"
	"github.com/heartmarshall/meetings-backend/internal/adapter/transcribe"
	"github.com/heartmarshall/meetings-backend/internal/adapter/workflow"
	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/service/meeting"
	"github.com/heartmarshall/meetings-backend/internal/service/pipeline"
)

// executionStarter mirrors the optional workflow dependency of the pipeline.
type executionStarter interface {
	StartExecution(ctx context.Context, name string, input any) (string, error)
}

// Deps holds the adapters and services shared by the server and the stage
// runner. Close releases the database pool.
type Deps struct {
	Pool      *pgxpool.Pool
	Artifacts *artifact.Repo
	Storage   *storage.Storage
	Meetings  *meeting.Service
	Pipeline  *pipeline.Service
}

// NewDeps connects to PostgreSQL, loads AWS credentials and builds every
// service. Migrations run first when cfg.Database.AutoMigrate is set.
func NewDeps(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := buildDeps(ctx, cfg, log, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return deps, nil
}

func buildDeps(ctx context.Context, cfg *config.Config, log *slog.Logger, pool *pgxpool.Pool) (*Deps, error) {
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	summarizer, err := llm.New(cfg.LLM, awsCfg, log)
	if err != nil {
		return nil, err
	}

	repo := artifact.New(pool)
	store := storage.New(storage.NewS3Client(awsCfg, cfg.Storage), cfg.Storage.BucketName(), log)

	pipelineSvc := pipeline.NewService(
		log,
		pipeline.ConfigFrom(cfg),
		repo,
		store,
		transcribe.NewClient(awsCfg, log),
		summarizer,
		newWorkflow(awsCfg, cfg.Pipeline, log),
	)

	return &Deps{
		Pool:      pool,
		Artifacts: repo,
		Storage:   store,
		Meetings:  meeting.NewService(log, meeting.ConfigFrom(cfg), repo, store),
		Pipeline:  pipelineSvc,
	}, nil
}

// newWorkflow returns nil (not a typed nil) when no state machine is
// configured, which disables the execution start on ingest.
func newWorkflow(awsCfg aws.Config, cfg config.PipelineConfig, log *slog.Logger) executionStarter {
	if cfg.StateMachineARN == "" {
		log.Info("workflow disabled: no state machine configured")
		return nil
	}
	return workflow.NewStarter(awsCfg, cfg.StateMachineARN, log)
}

// Close releases the database pool.
func (d *Deps) Close() {
	d.Pool.Close()
}
