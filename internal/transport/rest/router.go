package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/meetings-backend/internal/transport/middleware"
)

// RouterDeps holds everything the HTTP surface is assembled from.
type RouterDeps struct {
	Log           *slog.Logger
	Health        *HealthHandler
	Meetings      *MeetingHandler
	Auth          middleware.Middleware
	CORS          middleware.Middleware
	UploadLimiter middleware.Middleware
}

// NewRouter builds the HTTP handler. The global stack runs RequestID,
// Logger, Recovery, CORS and Auth in that order around every route.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidInput, "method not allowed", nil)
	})

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)

	r.Route("/meetings", func(r chi.Router) {
		r.Get("/", d.Meetings.List)
		r.With(middleware.Chain(d.UploadLimiter)).Post("/upload-url", d.Meetings.CreateUploadURL)

		r.Route("/{owner}/{name}/{date}/{basename}", func(r chi.Router) {
			r.Get("/summary", d.Meetings.Summary)
			r.Get("/transcript", d.Meetings.Transcript)
			r.Get("/recording-url", d.Meetings.RecordingURL)
		})
	})

	stack := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		d.CORS,
		d.Auth,
	)
	return stack(r)
}
