package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// Error codes of the REST error envelope.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "RESOURCE_NOT_FOUND"
	CodeProcessing   = "PROCESSING"
	CodeFailed       = "FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes one error. Details is always an object, empty when
// the error carries none.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// handleError maps a service error to its status code and envelope.
// Unclassified errors are logged and answered without their message.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *domain.ValidationError
		perr   *domain.ProcessingError
		failed *domain.PipelineFailedError
	)

	switch {
	case errors.As(err, &verr):
		fields := make([]fieldError, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = fieldError{Field: fe.Field, Message: fe.Message}
		}
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "invalid input", map[string]any{"fields": fields})

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFilename),
		errors.Is(err, domain.ErrInvalidKeyFormat):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, err.Error(), nil)

	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required", nil)

	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, CodeForbidden, "access to another owner's meetings is not allowed", nil)

	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "resource not found", nil)

	case errors.As(err, &perr):
		writeError(w, http.StatusConflict, CodeProcessing, "meeting is still processing",
			map[string]any{"status": string(perr.Status)})

	case errors.As(err, &failed):
		writeError(w, http.StatusFailedDependency, CodeFailed, "meeting processing failed",
			map[string]any{"error_code": failed.Code, "error_message": failed.Message})

	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}
