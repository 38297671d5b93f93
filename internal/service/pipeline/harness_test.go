package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

const (
	testBucket   = "meetings-artifacts"
	recordingKey = "recordings/alice@x.com/Daily_2025-10-25/rec123.mp4"
	transcriptKy = "transcripts/alice@x.com/Daily_2025-10-25/rec123.json"
	summaryKey   = "summaries/alice@x.com/Daily_2025-10-25/rec123.json"
)

var testID = domain.MeetingIdentifier{
	OwnerEmail:  "alice@x.com",
	MeetingName: "Daily",
	MeetingDate: "2025-10-25",
	Basename:    "rec123",
}

const rawTranscript = `{
  "jobName": "job",
  "results": {
    "language_code": "es-US",
    "transcripts": [{"transcript": "Hola mundo"}],
    "items": [
      {"type": "pronunciation", "start_time": "0.0", "end_time": "1.0", "alternatives": [{"content": "Hola"}]},
      {"type": "pronunciation", "start_time": "1.0", "end_time": "2.5", "alternatives": [{"content": "mundo"}]}
    ]
  }
}`

const validSummaryJSON = `{
  "titulo": "Daily de equipo",
  "temas_tratados": ["roadmap"],
  "resumen_general": "Se revisó el roadmap.",
  "pendientes": [],
  "tags": ["daily"],
  "acuerdos": [],
  "riesgos": [],
  "decisiones": []
}`

func testConfig() Config {
	return Config{
		AllowedExts:     []string{".mp3", ".mp4", ".m4a", ".wav", ".aac"},
		LanguageOptions: []string{"es-US", "en-US"},
		PollTimeout:     5 * time.Second,
		ModelID:         "amazon.titan-text-lite-v1",
		MaxTokens:       4096,
		Temperature:     0.2,
		TopP:            0.9,
	}
}

// memRepo backs an artifactRepoMock with an in-memory table.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.MeetingArtifact
}

func newMemRepo() (*memRepo, *artifactRepoMock) {
	r := &memRepo{rows: map[string]*domain.MeetingArtifact{}}

	get := func(id domain.MeetingIdentifier) (*domain.MeetingArtifact, error) {
		a, ok := r.rows[id.PK()]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return a, nil
	}
	snapshot := func(a *domain.MeetingArtifact) *domain.MeetingArtifact {
		cp := *a
		return &cp
	}

	mock := &artifactRepoMock{
		UpsertRecordingFunc: func(_ context.Context, id domain.MeetingIdentifier, ext, key string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			a := &domain.MeetingArtifact{MeetingIdentifier: id, Ext: ext, Status: status, RecordingKey: &key}
			r.rows[id.PK()] = a
			return snapshot(a), nil
		},
		UpdateWithTranscriptionFunc: func(_ context.Context, id domain.MeetingIdentifier, key string, status domain.ArtifactStatus, d *float64, lang *string) (*domain.MeetingArtifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			a, err := get(id)
			if err != nil {
				return nil, err
			}
			a.TranscriptKey, a.Status, a.DurationSec, a.Language = &key, status, d, lang
			a.SummaryKey, a.ErrorCode, a.ErrorMessage = nil, nil, nil
			return snapshot(a), nil
		},
		UpdateWithSummaryFunc: func(_ context.Context, id domain.MeetingIdentifier, key string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			a, err := get(id)
			if err != nil {
				return nil, err
			}
			a.SummaryKey, a.Status = &key, status
			a.ErrorCode, a.ErrorMessage = nil, nil
			return snapshot(a), nil
		},
		UpdateStatusFunc: func(_ context.Context, id domain.MeetingIdentifier, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			a, err := get(id)
			if err != nil {
				return nil, err
			}
			a.Status = status
			return snapshot(a), nil
		},
		MarkFailedFunc: func(_ context.Context, id domain.MeetingIdentifier, f domain.Failure) (*domain.MeetingArtifact, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			a, err := get(id)
			if err != nil {
				return nil, err
			}
			a.Status = domain.StatusFailed
			code, msg := f.Code, f.Message
			a.ErrorCode, a.ErrorMessage = &code, &msg
			return snapshot(a), nil
		},
	}
	return r, mock
}

func (r *memRepo) get(t *testing.T, id domain.MeetingIdentifier) *domain.MeetingArtifact {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id.PK()]
	if !ok {
		t.Fatalf("artifact %s not found", id.PK())
	}
	cp := *a
	return &cp
}

func (r *memRepo) seed(id domain.MeetingIdentifier, status domain.ArtifactStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordingKey
	r.rows[id.PK()] = &domain.MeetingArtifact{MeetingIdentifier: id, Ext: ".mp4", Status: status, RecordingKey: &key}
}

// memStore backs an objectStoreMock with an in-memory bucket.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() (*memStore, *objectStoreMock) {
	s := &memStore{objects: map[string][]byte{}}
	mock := &objectStoreMock{
		BucketFunc: func() string { return testBucket },
		PutFunc: func(_ context.Context, key string, body []byte, _ string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.objects[key] = body
			return nil
		},
		GetFunc: func(_ context.Context, key string) ([]byte, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			body, ok := s.objects[key]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return body, nil
		},
	}
	return s, mock
}

func (s *memStore) put(key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = []byte(body)
}

type testDeps struct {
	repo        *memRepo
	repoMock    *artifactRepoMock
	store       *memStore
	storeMock   *objectStoreMock
	transcriber *transcriberMock
	summarizer  *summarizerMock
	workflow    *workflowStarterMock
}

func newTestService(t *testing.T, withWorkflow bool) (*Service, *testDeps) {
	t.Helper()

	d := &testDeps{
		transcriber: &transcriberMock{},
		summarizer:  &summarizerMock{},
	}
	d.repo, d.repoMock = newMemRepo()
	d.store, d.storeMock = newMemStore()

	var wf workflowStarter
	if withWorkflow {
		d.workflow = &workflowStarterMock{}
		wf = d.workflow
	}

	svc := NewService(slog.New(slog.DiscardHandler), testConfig(), d.repoMock, d.storeMock, d.transcriber, d.summarizer, wf)
	svc.now = func() time.Time { return time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC) }
	return svc, d
}
