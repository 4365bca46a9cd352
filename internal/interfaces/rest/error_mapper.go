package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Type    apierrors.ErrorType `json:"type"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Reason  string              `json:"reason,omitempty"`
}

// WriteError folds err into the error catalogue and writes the envelope.
// Server-side failures are logged with their cause; the caller only sees the
// catalogue message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	apiErr := apierrors.FromError(err)

	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", apiErr.Code,
			"error", err,
		)
	}

	WriteJSON(w, apiErr.HTTPStatus, ErrorResponse{
		Error: ErrorDetail{
			Type:    apiErr.Type,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Reason:  apiErr.Reason,
		},
	})
}

// ErrorBody renders the envelope for a catalogue entry as a fixed string.
func ErrorBody(apiErr *apierrors.APIError) string {
	b, _ := json.Marshal(ErrorResponse{
		Error: ErrorDetail{Type: apiErr.Type, Code: apiErr.Code, Message: apiErr.Message},
	})
	return string(b)
}
