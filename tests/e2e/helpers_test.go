//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres/artifact"
	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/heartmarshall/meetings-backend/internal/auth"
	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/service/meeting"
	"github.com/heartmarshall/meetings-backend/internal/service/pipeline"
	"github.com/heartmarshall/meetings-backend/internal/transport/middleware"
	"github.com/heartmarshall/meetings-backend/internal/transport/rest"
)

const (
	testBucket    = "meetings-e2e"
	testJWTSecret = "e2e-secret-at-least-32-chars-long!!"
)

// ---------------------------------------------------------------------------
// In-memory object store
// ---------------------------------------------------------------------------

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Bucket() string { return testBucket }

func (s *memStore) Put(_ context.Context, key string, body []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return b, nil
}

func (s *memStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example/%s?ttl=%d", testBucket, key, int(ttl.Seconds())), nil
}

func (s *memStore) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example/%s?put=1&ttl=%d", testBucket, key, int(ttl.Seconds())), nil
}

func (s *memStore) Ping(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Scripted transcription and summarization backends
// ---------------------------------------------------------------------------

type fakeTranscriber struct {
	store *memStore

	mu   sync.Mutex
	jobs map[string]domain.TranscriptionJobRequest
}

func (f *fakeTranscriber) StartJob(_ context.Context, req domain.TranscriptionJobRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[req.JobName] = req
	return nil
}

// GetJob completes every job immediately, writing the raw output document
// where a real job would.
func (f *fakeTranscriber) GetJob(ctx context.Context, jobName string) (domain.TranscriptionJobResult, error) {
	f.mu.Lock()
	req, ok := f.jobs[jobName]
	f.mu.Unlock()
	if !ok {
		return domain.TranscriptionJobResult{}, fmt.Errorf("job %s not found", jobName)
	}

	key := req.OutputKey + jobName + ".json"
	raw := `{"jobName":"` + jobName + `","results":{"language_code":"es-US",` +
		`"transcripts":[{"transcript":"Hola equipo. Revisamos el plan."}],` +
		`"items":[{"type":"pronunciation","start_time":"0.5","end_time":"1.0","alternatives":[{"content":"Hola"}]},` +
		`{"type":"pronunciation","start_time":"1.0","end_time":"4.5","alternatives":[{"content":"equipo"}]}]}}`
	if err := f.store.Put(ctx, key, []byte(raw), "application/json"); err != nil {
		return domain.TranscriptionJobResult{}, err
	}

	return domain.TranscriptionJobResult{
		JobName:       jobName,
		Status:        domain.TranscriptionCompleted,
		TranscriptURI: "s3://" + testBucket + "/" + key,
		Language:      "es-US",
	}, nil
}

type fakeSummarizer struct{ output string }

func (f fakeSummarizer) Summarize(context.Context, domain.SummarizationRequest) (domain.SummarizationJobResult, error) {
	return domain.SummarizationJobResult{OutputText: f.output, StopReason: "end_turn"}, nil
}

const validSummary = `{"titulo":"Plan semanal","temas_tratados":["plan"],"resumen_general":"Se revisó el plan.",` +
	`"pendientes":[],"tags":["planning"],"acuerdos":[],"riesgos":[],"decisiones":[]}`

// ---------------------------------------------------------------------------
// testServer wraps the full HTTP stack and the pipeline for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL      string
	Client   *http.Client
	Pool     *pgxpool.Pool
	Store    *memStore
	Pipeline *pipeline.Service
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func setupTestServer(t *testing.T, summaryOutput string) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	repo := artifact.New(pool)
	store := newMemStore()

	exts := []string{".mp4", ".m4a", ".mp3", ".wav"}
	pipelineSvc := pipeline.NewService(logger,
		pipeline.Config{AllowedExts: exts, PollTimeout: 5 * time.Second, MaxTokens: 1024},
		repo, store,
		&fakeTranscriber{store: store, jobs: map[string]domain.TranscriptionJobRequest{}},
		fakeSummarizer{output: summaryOutput},
		nil,
	)
	meetingSvc := meeting.NewService(logger,
		meeting.Config{AllowedExts: exts, URLTTL: time.Hour, MinURLTTL: time.Minute, MaxURLTTL: 24 * time.Hour},
		repo, store,
	)

	validator, err := authpkg.NewValidator(config.AuthConfig{JWTSecret: testJWTSecret, EmailClaim: "email"})
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handler := rest.NewRouter(rest.RouterDeps{
		Log: logger,
		Health: rest.NewHealthHandler("e2e",
			rest.Component{Name: "database", Dep: pool},
			rest.Component{Name: "storage", Dep: store},
		),
		Meetings: rest.NewMeetingHandler(meetingSvc, logger),
		Auth:     middleware.Auth(validator),
		CORS: middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         600,
		}),
		UploadLimiter: limiter.Limit(100),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:      srv.URL,
		Client:   srv.Client(),
		Pool:     pool,
		Store:    store,
		Pipeline: pipelineSvc,
	}
}

// newOwner returns a unique e-mail and a signed token for it.
func newOwner(t *testing.T) (string, string) {
	t.Helper()

	email := fmt.Sprintf("owner-%s@example.com", uuid.New().String()[:8])
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return email, signed
}

// do sends a request and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path, token, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m), "body: %s", data)
	return m
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	env := decode(t, data)
	e, ok := env["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", data)
	code, _ := e["code"].(string)
	return code
}

// meetingPath builds /meetings/{owner}/{name}/{date}/{basename}/{suffix}.
func meetingPath(id domain.MeetingIdentifier, suffix string) string {
	return "/meetings/" + url.PathEscape(id.OwnerEmail) + "/" + url.PathEscape(id.MeetingName) + "/" +
		id.MeetingDate + "/" + url.PathEscape(id.Basename) + "/" + suffix
}

// objectCreated builds the storage notification for key.
func objectCreated(bucket, key string) domain.StorageEvent {
	var rec domain.StorageEventRecord
	rec.S3.Bucket.Name = bucket
	rec.S3.Object.Key = key
	return domain.StorageEvent{Records: []domain.StorageEventRecord{rec}}
}
