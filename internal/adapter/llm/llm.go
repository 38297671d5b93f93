// Package llm runs summarization prompts against a hosted language model.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Summarizer runs one summarization request.
type Summarizer interface {
	Summarize(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error)
}

// New returns the Summarizer selected by cfg.Provider.
func New(cfg config.LLMConfig, awsCfg aws.Config, logger *slog.Logger) (Summarizer, error) {
	switch cfg.Provider {
	case config.LLMProviderBedrock:
		return NewBedrock(bedrockruntime.NewFromConfig(awsCfg), cfg, logger), nil
	case config.LLMProviderAnthropic:
		return NewAnthropic(cfg, logger), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
