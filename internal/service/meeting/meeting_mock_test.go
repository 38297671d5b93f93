package meeting

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

var _ artifactRepo = &artifactRepoMock{}

type artifactRepoMock struct {
	GetFunc             func(ctx context.Context, id domain.MeetingIdentifier) (*domain.MeetingArtifact, error)
	ListFunc            func(ctx context.Context, filter domain.ArtifactFilter) ([]*domain.MeetingArtifact, int, error)
	UpsertRecordingFunc func(ctx context.Context, id domain.MeetingIdentifier, ext, recordingKey string, status domain.ArtifactStatus) (*domain.MeetingArtifact, error)

	calls struct {
		Get []struct {
			ID domain.MeetingIdentifier
		}
		List []struct {
			Filter domain.ArtifactFilter
		}
		UpsertRecording []struct {
			ID           domain.MeetingIdentifier
			Ext          string
			RecordingKey string
			Status       domain.ArtifactStatus
		}
	}
	lockGet             sync.RWMutex
	lockList            sync.RWMutex
	lockUpsertRecording sync.RWMutex
}

func (m *artifactRepoMock) Get(ctx context.Context, id domain.MeetingIdentifier) (*domain.MeetingArtifact, error) {
	if m.GetFunc == nil {
		panic("artifactRepoMock.GetFunc: method is nil but artifactRepo.Get was just called")
	}
	m.lockGet.Lock()
	m.calls.Get = append(m.calls.Get, struct {
		ID domain.MeetingIdentifier
	}{id})
	m.lockGet.Unlock()
	return m.GetFunc(ctx, id)
}

func (m *artifactRepoMock) GetCalls() []struct {
	ID domain.MeetingIdentifier
} {
	m.lockGet.RLock()
	defer m.lockGet.RUnlock()
	return m.calls.Get
}

func (m *artifactRepoMock) List(ctx context.Context, filter domain.ArtifactFilter) ([]*domain.MeetingArtifact, int, error) {
	if m.ListFunc == nil {
		panic("artifactRepoMock.ListFunc: method is nil but artifactRepo.List was just called")
	}
	m.lockList.Lock()
	m.calls.List = append(m.calls.List, struct {
		Filter domain.ArtifactFilter
	}{filter})
	m.lockList.Unlock()
	return m.ListFunc(ctx, filter)
}

func (m *artifactRepoMock) ListCalls() []struct {
	Filter domain.ArtifactFilter
} {
	m.lockList.RLock()
	defer m.lockList.RUnlock()
	return m.calls.List
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

var _ objectStore = &objectStoreMock{}

type objectStoreMock struct {
	GetFunc        func(ctx context.Context, key string) ([]byte, error)
	PresignGetFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPutFunc func(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	calls struct {
		Get []struct {
			Key string
		}
		PresignGet []struct {
			Key string
			TTL time.Duration
		}
		PresignPut []struct {
			Key         string
			ContentType string
			TTL         time.Duration
		}
	}
	lockGet        sync.RWMutex
	lockPresignGet sync.RWMutex
	lockPresignPut sync.RWMutex
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

func (m *objectStoreMock) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignGetFunc == nil {
		panic("objectStoreMock.PresignGetFunc: method is nil but objectStore.PresignGet was just called")
	}
	m.lockPresignGet.Lock()
	m.calls.PresignGet = append(m.calls.PresignGet, struct {
		Key string
		TTL time.Duration
	}{key, ttl})
	m.lockPresignGet.Unlock()
	return m.PresignGetFunc(ctx, key, ttl)
}

func (m *objectStoreMock) PresignGetCalls() []struct {
	Key string
	TTL time.Duration
} {
	m.lockPresignGet.RLock()
	defer m.lockPresignGet.RUnlock()
	return m.calls.PresignGet
}

func (m *objectStoreMock) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if m.PresignPutFunc == nil {
		panic("objectStoreMock.PresignPutFunc: method is nil but objectStore.PresignPut was just called")
	}
	m.lockPresignPut.Lock()
	m.calls.PresignPut = append(m.calls.PresignPut, struct {
		Key         string
		ContentType string
		TTL         time.Duration
	}{key, contentType, ttl})
	m.lockPresignPut.Unlock()
	return m.PresignPutFunc(ctx, key, contentType, ttl)
}

func (m *objectStoreMock) PresignPutCalls() []struct {
	Key         string
	ContentType string
	TTL         time.Duration
} {
	m.lockPresignPut.RLock()
	defer m.lockPresignPut.RUnlock()
	return m.calls.PresignPut
}
