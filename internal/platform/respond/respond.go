// Package respond holds the JSON response helpers shared by the HTTP
// handlers.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps a domain error onto an HTTP status and a stable JSON error
// shape. Internal details never leak to the client: anything without a
// known code reads as an internal error.
func Error(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	code := dErrors.GetCode(err)
	status := dErrors.ToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "error", err.Error())
	} else {
		logger.WarnContext(ctx, "request rejected", "error", err.Error())
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}

	JSON(w, status, errorBody{
		Error:     message,
		Code:      string(code),
		RequestID: middleware.GetRequestID(ctx),
	})
}
