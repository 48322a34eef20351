package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shaharia-lab/jobportal/internal/service"
)

// InternalErrorMessage is the only detail clients see for unexpected failures.
const InternalErrorMessage = "Something went wrong on the server!"

// Error is a failure that is safe to show to the client as-is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// BadRequest returns a 400 Error.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unavailable returns a 503 Error.
func Unavailable(msg string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: msg}
}

// RenderError writes err to the client. An *Error is shown with its own status
// and a *service.ValidationError becomes a 400; anything else is logged in
// full and answered with a generic 500.
func RenderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}

	logger.Error("unhandled error", append(requestAttrs(r), slog.String("error", err.Error()))...)
	WriteInternalError(w)
}

// WriteInternalError writes the generic 500 envelope.
func WriteInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, InternalErrorMessage)
}
