package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock speaks the Titan text-generation contract on Amazon Bedrock.
type Bedrock struct {
	api     invokeAPI
	timeout time.Duration
	log     *slog.Logger
}

// NewBedrock creates a Bedrock summarizer.
func NewBedrock(api invokeAPI, cfg config.LLMConfig, logger *slog.Logger) *Bedrock {
	return &Bedrock{
		api:     api,
		timeout: cfg.Timeout,
		log:     logger.With("adapter", "bedrock"),
	}
}

type titanRequest struct {
	InputText            string         `json:"inputText"`
	TextGenerationConfig titanGenConfig `json:"textGenerationConfig"`
}

type titanGenConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

type titanResponse struct {
	InputTextTokenCount int `json:"inputTextTokenCount"`
	Results             []struct {
		TokenCount       int    `json:"tokenCount"`
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

// Summarize invokes req.ModelID and returns the concatenated output text.
func (b *Bedrock) Summarize(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error) {
	body, err := json.Marshal(titanRequest{
		InputText: req.Prompt,
		TextGenerationConfig: titanGenConfig{
			MaxTokenCount: req.MaxTokens,
			Temperature:   req.Temperature,
			TopP:          req.TopP,
		},
	})
	if err != nil {
		return domain.SummarizationJobResult{}, fmt.Errorf("bedrock: marshal request: %w", err)
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := b.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.SummarizationJobResult{}, fmt.Errorf("bedrock: invoke %s: %w", req.ModelID, err)
		}
		return domain.SummarizationJobResult{}, fmt.Errorf("bedrock: invoke %s: %w: %w", req.ModelID, domain.ErrExternalService, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return domain.SummarizationJobResult{}, fmt.Errorf("bedrock: decode response: %w: %w", domain.ErrExternalService, err)
	}

	result := domain.SummarizationJobResult{InputTokens: resp.InputTextTokenCount}
	var text strings.Builder
	for _, r := range resp.Results {
		text.WriteString(r.OutputText)
		result.OutputTokens += r.TokenCount
		result.StopReason = r.CompletionReason
	}
	result.OutputText = text.String()

	b.log.InfoContext(ctx, "model invoked",
		slog.String("model_id", req.ModelID),
		slog.Int("input_tokens", result.InputTokens),
		slog.Int("output_tokens", result.OutputTokens),
		slog.String("stop_reason", result.StopReason),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}
