package pipeline

import (
	"context"
	"sync"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// artifactRepoMock
// ---------------------------------------------------------------------------

var _ artifactRepo = &artifactRepoMock{}

type artifactRepoMock struct {
	UpsertRecordingFunc         func(ctx context.Context, id domain.MeetingIdentifier, ext, recordingKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	UpdateWithTranscriptionFunc func(ctx context.Context, id domain.MeetingIdentifier, transcriptKey string, status domain.ArtifactStatus, durationSec *float64, language *string) (*domain.MeetingArtifact, error)
	UpdateWithSummaryFunc       func(ctx context.Context, id domain.MeetingIdentifier, summaryKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	UpdateStatusFunc            func(ctx context.Context, id domain.MeetingIdentifier, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)
	MarkFailedFunc              func(ctx context.Context, id domain.MeetingIdentifier, f domain.Failure) (*domain.MeetingArtifact, error)

	calls struct {
		UpsertRecording []struct {
			ID           domain.MeetingIdentifier
			Ext          string
			RecordingKey string
			Status       domain.ArtifactStatus
		}
		UpdateWithTranscription []struct {
			ID            domain.MeetingIdentifier
			TranscriptKey string
			Status        domain.ArtifactStatus
			DurationSec   *float64
			Language      *string
		}
		UpdateWithSummary []struct {
			ID         domain.MeetingIdentifier
			SummaryKey string
			Status     domain.ArtifactStatus
		}
		UpdateStatus []struct {
			ID     domain.MeetingIdentifier
			Status domain.ArtifactStatus
		}
		MarkFailed []struct {
			Ctx     context.Context
			ID      domain.MeetingIdentifier
			Failure domain.Failure
		}
	}
	lockUpsertRecording         sync.RWMutex
	lockUpdateWithTranscription sync.RWMutex
	lockUpdateWithSummary       sync.RWMutex
	lockUpdateStatus            sync.RWMutex
	lockMarkFailed              sync.RWMutex
}

func (m *artifactRepoMock) UpsertRecording(ctx context.Context, id domain.MeetingIdentifier, ext, recordingKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
	if m.UpsertRecordingFunc == nil {
		panic("artifactRepoMock.UpsertRecordingFunc: method is nil but artifactRepo.UpsertRecording was just called")
	}
	m.lockUpsertRecording.Lock()
	m.calls.UpsertRecording = append(m.calls.UpsertRecording, struct {
		ID           domain.MeetingIdentifier
		Ext          string
		RecordingKey string
		Status       domain.ArtifactStatus
	}{id, ext, recordingKey, status})
	m.lockUpsertRecording.Unlock()
	return m.UpsertRecordingFunc(ctx, id, ext, recordingKey, status)
}

func (m *artifactRepoMock) UpsertRecordingCalls() []struct {
	ID           domain.MeetingIdentifier
	Ext          string
	RecordingKey string
	Status       domain.ArtifactStatus
} {
	m.lockUpsertRecording.RLock()
	defer m.lockUpsertRecording.RUnlock()
	return m.calls.UpsertRecording
}

func (m *artifactRepoMock) UpdateWithTranscription(ctx context.Context, id domain.MeetingIdentifier, transcriptKey string, status domain.ArtifactStatus, durationSec *float64, language *string) (*domain.MeetingArtifact, error) {
	if m.UpdateWithTranscriptionFunc == nil {
		panic("artifactRepoMock.UpdateWithTranscriptionFunc: method is nil but artifactRepo.UpdateWithTranscription was just called")
	}
	m.lockUpdateWithTranscription.Lock()
	m.calls.UpdateWithTranscription = append(m.calls.UpdateWithTranscription, struct {
		ID            domain.MeetingIdentifier
		TranscriptKey string
		Status        domain.ArtifactStatus
		DurationSec   *float64
		Language      *string
	}{id, transcriptKey, status, durationSec, language})
	m.lockUpdateWithTranscription.Unlock()
	return m.UpdateWithTranscriptionFunc(ctx, id, transcriptKey, status, durationSec, language)
}

func (m *artifactRepoMock) UpdateWithTranscriptionCalls() []struct {
	ID            domain.MeetingIdentifier
	TranscriptKey string
	Status        domain.ArtifactStatus
	DurationSec   *float64
	Language      *string
} {
	m.lockUpdateWithTranscription.RLock()
	defer m.lockUpdateWithTranscription.RUnlock()
	return m.calls.UpdateWithTranscription
}

func (m *artifactRepoMock) UpdateWithSummary(ctx context.Context, id domain.MeetingIdentifier, summaryKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
	if m.UpdateWithSummaryFunc == nil {
		panic("artifactRepoMock.UpdateWithSummaryFunc: method is nil but artifactRepo.UpdateWithSummary was just called")
	}
	m.lockUpdateWithSummary.Lock()
	m.calls.UpdateWithSummary = append(m.calls.UpdateWithSummary, struct {
		ID         domain.MeetingIdentifier
		SummaryKey string
		Status     domain.ArtifactStatus
	}{id, summaryKey, status})
	m.lockUpdateWithSummary.Unlock()
	return m.UpdateWithSummaryFunc(ctx, id, summaryKey, status)
}

func (m *artifactRepoMock) UpdateWithSummaryCalls() []struct {
	ID         domain.MeetingIdentifier
	SummaryKey string
	Status     domain.ArtifactStatus
} {
	m.lockUpdateWithSummary.RLock()
	defer m.lockUpdateWithSummary.RUnlock()
	return m.calls.UpdateWithSummary
}

func (m *artifactRepoMock) UpdateStatus(ctx context.Context, id domain.MeetingIdentifier, status domain.ArtifactStatus) (*domain.MeetingArtifact, error) {
	if m.UpdateStatusFunc == nil {
		panic("artifactRepoMock.UpdateStatusFunc: method is nil but artifactRepo.UpdateStatus was just called")
	}
	m.lockUpdateStatus.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, struct {
		ID     domain.MeetingIdentifier
		Status domain.ArtifactStatus
	}{id, status})
	m.lockUpdateStatus.Unlock()
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *artifactRepoMock) UpdateStatusCalls() []struct {
	ID     domain.MeetingIdentifier
	Status domain.ArtifactStatus
} {
	m.lockUpdateStatus.RLock()
	defer m.lockUpdateStatus.RUnlock()
	return m.calls.UpdateStatus
}

func (m *artifactRepoMock) MarkFailed(ctx context.Context, id domain.MeetingIdentifier, f domain.Failure) (*domain.MeetingArtifact, error) {
	if m.MarkFailedFunc == nil {
		panic("artifactRepoMock.MarkFailedFunc: method is nil but artifactRepo.MarkFailed was just called")
	}
	m.lockMarkFailed.Lock()
	m.calls.MarkFailed = append(m.calls.MarkFailed, struct {
		Ctx     context.Context
		ID      domain.MeetingIdentifier
		Failure domain.Failure
	}{ctx, id, f})
	m.lockMarkFailed.Unlock()
	return m.MarkFailedFunc(ctx, id, f)
}

func (m *artifactRepoMock) MarkFailedCalls() []struct {
	Ctx     context.Context
	ID      domain.MeetingIdentifier
	Failure domain.Failure
} {
	m.lockMarkFailed.RLock()
	defer m.lockMarkFailed.RUnlock()
	return m.calls.MarkFailed
}

// ---------------------------------------------------------------------------
// objectStoreMock
// ---------------------------------------------------------------------------

var _ objectStore = &objectStoreMock{}

type objectStoreMock struct {
	BucketFunc func() string
	PutFunc    func(ctx context.Context, key string, body []byte, contentType string) error
	GetFunc    func(ctx context.Context, key string) ([]byte, error)

	calls struct {
		Put []struct {
			Key         string
			Body        []byte
			ContentType string
		}
		Get []struct {
			Key string
		}
	}
	lockPut sync.RWMutex
	lockGet sync.RWMutex
}

func (m *objectStoreMock) Bucket() string {
	if m.BucketFunc == nil {
		panic("objectStoreMock.BucketFunc: method is nil but objectStore.Bucket was just called")
	}
	return m.BucketFunc()
}

func (m *objectStoreMock) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if m.PutFunc == nil {
		panic("objectStoreMock.PutFunc: method is nil but objectStore.Put was just called")
	}
	m.lockPut.Lock()
	m.calls.Put = append(m.calls.Put, struct {
		Key         string
		Body        []byte
		ContentType string
	}{key, body, contentType})
	m.lockPut.Unlock()
	return m.PutFunc(ctx, key, body, contentType)
}

func (m *objectStoreMock) PutCalls() []struct {
	Key         string
	Body        []byte
	ContentType string
} {
	m.lockPut.RLock()
	defer m.lockPut.RUnlock()
	return m.calls.Put
}

func (m *objectStoreMock) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc == nil {
		panic("objectStoreMock.GetFunc: method is nil but objectStore.Get was just called")
	}
	m.lockGet.Lock()
	m.calls.Get = append(m.calls.Get, struct {
		Key string
	}{key})
	m.lockGet.Unlock()
	return m.GetFunc(ctx, key)
}

func (m *objectStoreMock) GetCalls() []struct {
	Key string
} {
	m.lockGet.RLock()
	defer m.lockGet.RUnlock()
	return m.calls.Get
}

// ---------------------------------------------------------------------------
// transcriberMock
// ---------------------------------------------------------------------------

var _ transcriber = &transcriberMock{}

type transcriberMock struct {
	StartJobFunc func(ctx context.Context, req domain.TranscriptionJobRequest) error
	GetJobFunc   func(ctx context.Context, jobName string) (domain.TranscriptionJobResult, error)

	calls struct {
		StartJob []struct {
			Req domain.TranscriptionJobRequest
		}
		GetJob []struct {
			Ctx     context.Context
			JobName string
		}
	}
	lockStartJob sync.RWMutex
	lockGetJob   sync.RWMutex
}

func (m *transcriberMock) StartJob(ctx context.Context, req domain.TranscriptionJobRequest) error {
	if m.StartJobFunc == nil {
		panic("transcriberMock.StartJobFunc: method is nil but transcriber.StartJob was just called")
	}
	m.lockStartJob.Lock()
	m.calls.StartJob = append(m.calls.StartJob, struct {
		Req domain.TranscriptionJobRequest
	}{req})
	m.lockStartJob.Unlock()
	return m.StartJobFunc(ctx, req)
}

func (m *transcriberMock) StartJobCalls() []struct {
	Req domain.TranscriptionJobRequest
} {
	m.lockStartJob.RLock()
	defer m.lockStartJob.RUnlock()
	return m.calls.StartJob
}

func (m *transcriberMock) GetJob(ctx context.Context, jobName string) (domain.TranscriptionJobResult, error) {
	if m.GetJobFunc == nil {
		panic("transcriberMock.GetJobFunc: method is nil but transcriber.GetJob was just called")
	}
	m.lockGetJob.Lock()
	m.calls.GetJob = append(m.calls.GetJob, struct {
		Ctx     context.Context
		JobName string
	}{ctx, jobName})
	m.lockGetJob.Unlock()
	return m.GetJobFunc(ctx, jobName)
}

func (m *transcriberMock) GetJobCalls() []struct {
	Ctx     context.Context
	JobName string
} {
	m.lockGetJob.RLock()
	defer m.lockGetJob.RUnlock()
	return m.calls.GetJob
}

// ---------------------------------------------------------------------------
// summarizerMock
// ---------------------------------------------------------------------------

var _ summarizer = &summarizerMock{}

type summarizerMock struct {
	SummarizeFunc func(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error)

	calls struct {
		Summarize []struct {
			Req domain.SummarizationRequest
		}
	}
	lockSummarize sync.RWMutex
}

func (m *summarizerMock) Summarize(ctx context.Context, req domain.SummarizationRequest) (domain.SummarizationJobResult, error) {
	if m.SummarizeFunc == nil {
		panic("summarizerMock.SummarizeFunc: method is nil but summarizer.Summarize was just called")
	}
	m.lockSummarize.Lock()
	m.calls.Summarize = append(m.calls.Summarize, struct {
		Req domain.SummarizationRequest
	}{req})
	m.lockSummarize.Unlock()
	return m.SummarizeFunc(ctx, req)
}

func (m *summarizerMock) SummarizeCalls() []struct {
	Req domain.SummarizationRequest
} {
	m.lockSummarize.RLock()
	defer m.lockSummarize.RUnlock()
	return m.calls.Summarize
}

// ---------------------------------------------------------------------------
// workflowStarterMock
// ---------------------------------------------------------------------------

var _ workflowStarter = &workflowStarterMock{}

type workflowStarterMock struct {
	StartExecutionFunc func(ctx context.Context, name string, input any) (string, error)

	calls struct {
		StartExecution []struct {
			Name  string
			Input any
		}
	}
	lockStartExecution sync.RWMutex
}

func (m *workflowStarterMock) StartExecution(ctx context.Context, name string, input any) (string, error) {
	if m.StartExecutionFunc == nil {
		panic("workflowStarterMock.StartExecutionFunc: method is nil but workflowStarter.StartExecution was just called")
	}
	m.lockStartExecution.Lock()
	m.calls.StartExecution = append(m.calls.StartExecution, struct {
		Name  string
		Input any
	}{name, input})
	m.lockStartExecution.Unlock()
	return m.StartExecutionFunc(ctx, name, input)
}

func (m *workflowStarterMock) StartExecutionCalls() []struct {
	Name  string
	Input any
} {
	m.lockStartExecution.RLock()
	defer m.lockStartExecution.RUnlock()
	return m.calls.StartExecution
}
