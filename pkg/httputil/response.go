package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
	"github.com/gregroclawski/DataShatter/pkg/logger"
	"github.com/gregroclawski/DataShatter/pkg/validator"
)

// Detail is the failure body returned on every error response. The mobile
// client reads the detail string verbatim, so messages are part of the API.
type Detail struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes a failure body with the given status and detail message.
// 401 responses carry a WWW-Authenticate challenge for bearer clients.
func WriteDetail(w http.ResponseWriter, status int, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, Detail{Detail: message})
}

// WriteError maps an error to its HTTP status and writes the failure body.
// AppError messages pass through verbatim; sentinel errors get generic
// messages; anything else becomes a 500 with the cause logged, not leaked.
// It prefers the request-scoped logger from context over the fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "request failed",
				slog.String("error", appErr.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		WriteDetail(w, appErr.Status, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "An internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		message = "Resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message = "Resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "Not authenticated"
	case errors.Is(err, apperrors.ErrForbidden):
		message = "Access denied"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteDetail(w, status, message)
}

// WriteValidationError writes a 400 failure body describing which fields
// failed request validation.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteDetail(w, http.StatusBadRequest, valErr.Error())
		return
	}
	WriteDetail(w, http.StatusBadRequest, err.Error())
}
