package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Transcribe.validate(); err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if c.RateLimit.UploadPerMinute <= 0 {
		return fmt.Errorf("rate_limit.upload_per_minute must be > 0 (got %d)", c.RateLimit.UploadPerMinute)
	}
	return nil
}

func (a *AuthConfig) validate() error {
	switch {
	case a.JWTPublicKey != "":
		if !strings.Contains(a.JWTPublicKey, "BEGIN PUBLIC KEY") {
			return fmt.Errorf("jwt_public_key must be a PEM encoded public key")
		}
	case len(a.JWTSecret) < 32:
		return fmt.Errorf("jwt_secret must be at least 32 characters (got %d)", len(a.JWTSecret))
	}
	if strings.TrimSpace(a.EmailClaim) == "" {
		return fmt.Errorf("email_claim is required")
	}
	return nil
}

func (s *StorageConfig) validate() error {
	if s.BucketName() == "" {
		return fmt.Errorf("bucket is required")
	}
	if s.Region == "" {
		return fmt.Errorf("region is required")
	}
	if s.MinURLTTL <= 0 {
		return fmt.Errorf("min_url_ttl must be > 0 (got %s)", s.MinURLTTL)
	}
	if s.MaxURLTTL < s.MinURLTTL {
		return fmt.Errorf("max_url_ttl %s must be >= min_url_ttl %s", s.MaxURLTTL, s.MinURLTTL)
	}
	if s.URLTTL < s.MinURLTTL || s.URLTTL > s.MaxURLTTL {
		return fmt.Errorf("url_ttl %s must be within [%s, %s]", s.URLTTL, s.MinURLTTL, s.MaxURLTTL)
	}
	return nil
}

func (t *TranscribeConfig) validate() error {
	if t.PollTimeout <= 0 {
		return fmt.Errorf("poll_timeout must be > 0 (got %s)", t.PollTimeout)
	}
	if t.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %s)", t.PollInterval)
	}
	if t.PollDeadline <= t.PollInterval {
		return fmt.Errorf("poll_deadline %s must exceed poll_interval %s", t.PollDeadline, t.PollInterval)
	}
	return nil
}

func (l *LLMConfig) validate() error {
	switch l.Provider {
	case LLMProviderBedrock:
	case LLMProviderAnthropic:
		if l.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic_api_key is required for provider %q", l.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	if l.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	if l.Temperature < 0 || l.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0, 1] (got %v)", l.Temperature)
	}
	if l.TopP <= 0 || l.TopP > 1 {
		return fmt.Errorf("top_p must be within (0, 1] (got %v)", l.TopP)
	}
	return nil
}

func (p *PipelineConfig) validate() error {
	exts := p.AllowedExts()
	if len(exts) == 0 {
		return fmt.Errorf("allowed_exts must not be empty")
	}
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") || len(e) < 2 {
			return fmt.Errorf("allowed_exts entry %q must start with a dot", e)
		}
	}
	return nil
}
