package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/service/meeting"
)

var _ meetingService = &meetingServiceMock{}

type meetingServiceMock struct {
	ListFunc            func(ctx context.Context, input meeting.ListInput) (*meeting.ListResult, error)
	CreateUploadURLFunc func(ctx context.Context, input meeting.UploadURLInput) (*meeting.UploadURL, error)
	GetSummaryFunc      func(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error)
	GetTranscriptFunc   func(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error)
	RecordingURLFunc    func(ctx context.Context, id domain.MeetingIdentifier, expiresSec *int) (*meeting.SignedURL, error)

	calls struct {
		List            []meeting.ListInput
		CreateUploadURL []meeting.UploadURLInput
		GetSummary      []domain.MeetingIdentifier
		GetTranscript   []domain.MeetingIdentifier
		RecordingURL    []struct {
			ID         domain.MeetingIdentifier
			ExpiresSec *int
		}
	}
	mu sync.RWMutex
}

func (m *meetingServiceMock) List(ctx context.Context, input meeting.ListInput) (*meeting.ListResult, error) {
	if m.ListFunc == nil {
		panic("meetingServiceMock.ListFunc: method is nil but meetingService.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, input)
	m.mu.Unlock()
	return m.ListFunc(ctx, input)
}

func (m *meetingServiceMock) ListCalls() []meeting.ListInput {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.List
}

func (m *meetingServiceMock) CreateUploadURL(ctx context.Context, input meeting.UploadURLInput) (*meeting.UploadURL, error) {
	if m.CreateUploadURLFunc == nil {
		panic("meetingServiceMock.CreateUploadURLFunc: method is nil but meetingService.CreateUploadURL was just called")
	}
	m.mu.Lock()
	m.calls.CreateUploadURL = append(m.calls.CreateUploadURL, input)
	m.mu.Unlock()
	return m.CreateUploadURLFunc(ctx, input)
}

func (m *meetingServiceMock) CreateUploadURLCalls() []meeting.UploadURLInput {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.CreateUploadURL
}

func (m *meetingServiceMock) GetSummary(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error) {
	if m.GetSummaryFunc == nil {
		panic("meetingServiceMock.GetSummaryFunc: method is nil but meetingService.GetSummary was just called")
	}
	m.mu.Lock()
	m.calls.GetSummary = append(m.calls.GetSummary, id)
	m.mu.Unlock()
	return m.GetSummaryFunc(ctx, id)
}

func (m *meetingServiceMock) GetSummaryCalls() []domain.MeetingIdentifier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.GetSummary
}

func (m *meetingServiceMock) GetTranscript(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error) {
	if m.GetTranscriptFunc == nil {
		panic("meetingServiceMock.GetTranscriptFunc: method is nil but meetingService.GetTranscript was just called")
	}
	m.mu.Lock()
	m.calls.GetTranscript = append(m.calls.GetTranscript, id)
	m.mu.Unlock()
	return m.GetTranscriptFunc(ctx, id)
}

func (m *meetingServiceMock) RecordingURL(ctx context.Context, id domain.MeetingIdentifier, expiresSec *int) (*meeting.SignedURL, error) {
	if m.RecordingURLFunc == nil {
		panic("meetingServiceMock.RecordingURLFunc: method is nil but meetingService.RecordingURL was just called")
	}
	m.mu.Lock()
	m.calls.RecordingURL = append(m.calls.RecordingURL, struct {
		ID         domain.MeetingIdentifier
		ExpiresSec *int
	}{id, expiresSec})
	m.mu.Unlock()
	return m.RecordingURLFunc(ctx, id, expiresSec)
}

func (m *meetingServiceMock) RecordingURLCalls() []struct {
	ID         domain.MeetingIdentifier
	ExpiresSec *int
} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.RecordingURL
}
