package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Anthropic runs prompts through the Anthropic Messages API.
type Anthropic struct {
	client  anthropic.Client
	timeout time.Duration
	log     *slog.Logger
}

// NewAnthropic creates an Anthropic summarizer. Extra options are applied
// after the API key.
func NewAnthropic(cfg config.LLMConfig, logger *slog.Logger, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}, opts...)
	return &Anthropic{
		client:  anthropic.NewClient(opts...),
		timeout: cfg.Timeout,
		log:     logger.With("adapter", "anthropic"),
	}
}

// Summarize sends req.Prompt as a single user message and returns the text
// blocks of the reply.
func (a *Anthropic) Summarize(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.ModelID),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		TopP:        anthropic.Float(req.TopP),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.SummarizationJobResult{}, fmt.Errorf("anthropic: messages %s: %w", req.ModelID, err)
		}
		return domain.SummarizationJobResult{}, fmt.Errorf("anthropic: messages %s: %w: %w", req.ModelID, domain.ErrExternalService, err)
	}

	if len(msg.Content) == 0 {
		return domain.SummarizationJobResult{}, fmt.Errorf("anthropic: empty response: %w", domain.ErrExternalService)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := domain.SummarizationJobResult{
		OutputText:   text.String(),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}

	a.log.InfoContext(ctx, "model invoked",
		slog.String("model_id", req.ModelID),
		slog.Int("input_tokens", result.InputTokens),
		slog.Int("output_tokens", result.OutputTokens),
		slog.String("stop_reason", result.StopReason),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}
