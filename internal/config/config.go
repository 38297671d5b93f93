package config

import (
	"strings"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/paths"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	LLM        LLMConfig        `yaml:"llm"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// AuthConfig holds bearer token validation settings. Tokens are issued by
// an external identity provider; exactly one of JWTSecret (HS256) or
// JWTPublicKey (RS256, PEM) is used.
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"`
	JWTPublicKey string `yaml:"jwt_public_key" env:"AUTH_JWT_PUBLIC_KEY"`
	JWTIssuer    string `yaml:"jwt_issuer"     env:"AUTH_JWT_ISSUER"`
	EmailClaim   string `yaml:"email_claim"    env:"AUTH_EMAIL_CLAIM"    env-default:"email"`
}

// StorageConfig holds object storage settings.
type StorageConfig struct {
	Bucket    string        `yaml:"bucket"      env:"STORAGE_BUCKET"      env-required:"true"`
	Region    string        `yaml:"region"      env:"STORAGE_REGION"      env-default:"us-east-1"`
	Endpoint  string        `yaml:"endpoint"    env:"STORAGE_ENDPOINT"`
	URLTTL    time.Duration `yaml:"url_ttl"     env:"STORAGE_URL_TTL"     env-default:"1h"`
	MinURLTTL time.Duration `yaml:"min_url_ttl" env:"STORAGE_MIN_URL_TTL" env-default:"60s"`
	MaxURLTTL time.Duration `yaml:"max_url_ttl" env:"STORAGE_MAX_URL_TTL" env-default:"168h"`
}

// BucketName returns the bucket name; Bucket may be an ARN or s3:// URI.
func (c StorageConfig) BucketName() string {
	return paths.BucketName(c.Bucket)
}

// TranscribeConfig holds transcription job settings. An empty LanguageCode
// enables language identification.
type TranscribeConfig struct {
	LanguageCode       string        `yaml:"language_code"    env:"TRANSCRIBE_LANGUAGE_CODE"`
	LanguageOptionsRaw string        `yaml:"language_options" env:"TRANSCRIBE_LANGUAGE_OPTIONS"`
	PollTimeout        time.Duration `yaml:"poll_timeout"     env:"TRANSCRIBE_POLL_TIMEOUT"     env-default:"30s"`
	PollInterval       time.Duration `yaml:"poll_interval"    env:"TRANSCRIBE_POLL_INTERVAL"    env-default:"15s"`
	PollDeadline       time.Duration `yaml:"poll_deadline"    env:"TRANSCRIBE_POLL_DEADLINE"    env-default:"2h"`
}

// LanguageOptions returns the parsed candidate languages for identification.
func (c TranscribeConfig) LanguageOptions() []string {
	return splitList(c.LanguageOptionsRaw)
}

const (
	LLMProviderBedrock   = "bedrock"
	LLMProviderAnthropic = "anthropic"
)

// LLMConfig holds summarization model settings.
type LLMConfig struct {
	Provider        string        `yaml:"provider"          env:"LLM_PROVIDER"          env-default:"bedrock"`
	ModelID         string        `yaml:"model_id"          env:"LLM_MODEL_ID"          env-default:"amazon.titan-text-lite-v1"`
	MaxTokens       int           `yaml:"max_tokens"        env:"LLM_MAX_TOKENS"        env-default:"4096"`
	Temperature     float64       `yaml:"temperature"       env:"LLM_TEMPERATURE"       env-default:"0.2"`
	TopP            float64       `yaml:"top_p"             env:"LLM_TOP_P"             env-default:"0.9"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"LLM_ANTHROPIC_API_KEY"`
	Timeout         time.Duration `yaml:"timeout"           env:"LLM_TIMEOUT"           env-default:"60s"`
}

// PipelineConfig holds orchestrator settings.
type PipelineConfig struct {
	AllowedExtsRaw  string `yaml:"allowed_exts"      env:"PIPELINE_ALLOWED_EXTS"      env-default:".mp3,.mp4,.m4a,.wav"`
	StateMachineARN string `yaml:"state_machine_arn" env:"PIPELINE_STATE_MACHINE_ARN"`
}

// AllowedExts returns the lower-cased extension allow-list.
func (c PipelineConfig) AllowedExts() []string {
	exts := splitList(c.AllowedExtsRaw)
	for i, e := range exts {
		exts[i] = strings.ToLower(e)
	}
	return exts
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	UploadPerMinute int `yaml:"upload_per_minute" env:"RATE_LIMIT_UPLOAD_PER_MINUTE" env-default:"30"`
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
