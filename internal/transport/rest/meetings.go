package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/meetings-backend/internal/domain"
	"github.com/heartmarshall/meetings-backend/internal/service/meeting"
)

const maxBodyBytes = 1 << 20

type meetingService interface {
	List(ctx context.Context, input meeting.ListInput) (*meeting.ListResult, error)
	CreateUploadURL(ctx context.Context, input meeting.UploadURLInput) (*meeting.UploadURL, error)
	GetSummary(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error)
	GetTranscript(ctx context.Context, id domain.MeetingIdentifier) ([]byte, error)
	RecordingURL(ctx context.Context, id domain.MeetingIdentifier, expiresSec *int) (*meeting.SignedURL, error)
}

// MeetingHandler serves the /meetings endpoints.
type MeetingHandler struct {
	svc meetingService
	log *slog.Logger
}

// NewMeetingHandler creates a MeetingHandler.
func NewMeetingHandler(svc meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, log: logger.With("handler", "meetings")}
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type meetingItem struct {
	OwnerEmail    string    `json:"owner_email"`
	MeetingName   string    `json:"meeting_name"`
	MeetingDate   string    `json:"meeting_date"`
	Basename      string    `json:"basename"`
	Folder        string    `json:"folder"`
	Filename      string    `json:"filename"`
	Status        string    `json:"status"`
	RecordingURL  *string   `json:"recording_url,omitempty"`
	TranscriptURL *string   `json:"transcript_url,omitempty"`
	SummaryURL    *string   `json:"summary_url,omitempty"`
	ErrorCode     *string   `json:"error_code,omitempty"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	DurationSec   *float64  `json:"duration_sec,omitempty"`
	Language      *string   `json:"language,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listResponse struct {
	Items    []meetingItem `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type uploadURLRequest struct {
	MeetingName string `json:"meeting_name"`
	MeetingDate string `json:"meeting_date"`
	Filename    string `json:"filename"`
	ExpiresSec  *int   `json:"expires_sec"`
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	UploadURL    string `json:"upload_url"`
	RecordingKey string `json:"recording_key"`
	Status       string `json:"status"`
	ExpiresSec   int    `json:"expires_sec"`
}

type recordingURLResponse struct {
	URL          string `json:"url"`
	ExpiresSec   int    `json:"expires_sec"`
	RecordingKey string `json:"recording_key"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// List handles GET /meetings.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var fields []domain.FieldError
	page := queryInt(q, "page", &fields)
	pageSize := queryInt(q, "page_size", &fields)
	if len(fields) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(fields))
		return
	}

	input := meeting.ListInput{
		OwnerEmail:  strings.TrimSpace(q.Get("owner_email")),
		MeetingName: queryString(q, "meeting_name"),
		FromDate:    queryString(q, "from_date"),
		ToDate:      queryString(q, "to_date"),
	}
	if page != nil {
		input.Page = *page
	}
	if pageSize != nil {
		input.PageSize = *pageSize
	}
	if s := queryString(q, "status"); s != nil {
		status := domain.ArtifactStatus(strings.ToUpper(*s))
		input.Status = &status
	}

	result, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listResponse{
		Items:    make([]meetingItem, len(result.Items)),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}
	for i, it := range result.Items {
		resp.Items[i] = toMeetingItem(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateUploadURL handles POST /meetings/upload-url.
func (h *MeetingHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "invalid request body", nil)
		return
	}

	result, err := h.svc.CreateUploadURL(r.Context(), meeting.UploadURLInput{
		MeetingName: req.MeetingName,
		MeetingDate: req.MeetingDate,
		Filename:    req.Filename,
		ExpiresSec:  req.ExpiresSec,
		ContentType: req.ContentType,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{
		UploadURL:    result.URL,
		RecordingKey: result.RecordingKey,
		Status:       string(result.Status),
		ExpiresSec:   result.ExpiresSec,
	})
}

// Summary handles GET /meetings/{owner}/{name}/{date}/{basename}/summary.
func (h *MeetingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.GetSummary(r.Context(), identifierFromPath(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRawJSON(w, body)
}

// Transcript handles GET /meetings/{owner}/{name}/{date}/{basename}/transcript.
func (h *MeetingHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.GetTranscript(r.Context(), identifierFromPath(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRawJSON(w, body)
}

// RecordingURL handles GET /meetings/{owner}/{name}/{date}/{basename}/recording-url.
func (h *MeetingHandler) RecordingURL(w http.ResponseWriter, r *http.Request) {
	var fields []domain.FieldError
	expires := queryInt(r.URL.Query(), "expires_sec", &fields)
	if len(fields) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(fields))
		return
	}

	result, err := h.svc.RecordingURL(r.Context(), identifierFromPath(r), expires)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recordingURLResponse{
		URL:          result.URL,
		ExpiresSec:   result.ExpiresSec,
		RecordingKey: result.RecordingKey,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toMeetingItem(it meeting.Item) meetingItem {
	return meetingItem{
		OwnerEmail:    it.OwnerEmail,
		MeetingName:   it.MeetingName,
		MeetingDate:   it.MeetingDate,
		Basename:      it.Basename,
		Folder:        it.Folder,
		Filename:      it.Filename,
		Status:        string(it.Status),
		RecordingURL:  it.RecordingURL,
		TranscriptURL: it.TranscriptURL,
		SummaryURL:    it.SummaryURL,
		ErrorCode:     it.ErrorCode,
		ErrorMessage:  it.ErrorMessage,
		DurationSec:   it.DurationSec,
		Language:      it.Language,
		UpdatedAt:     it.UpdatedAt,
	}
}

// identifierFromPath reads the four identifier segments. The service
// validates them.
func identifierFromPath(r *http.Request) domain.MeetingIdentifier {
	return domain.MeetingIdentifier{
		OwnerEmail:  pathParam(r, "owner"),
		MeetingName: pathParam(r, "name"),
		MeetingDate: pathParam(r, "date"),
		Basename:    pathParam(r, "basename"),
	}
}

// pathParam returns the decoded path segment. chi matches on the raw path
// when the request carries escaped characters, leaving params escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(q url.Values, key string, fields *[]domain.FieldError) *int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*fields = append(*fields, domain.FieldError{Field: key, Message: "must be an integer"})
		return nil
	}
	return &n
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
