package httpapi

import (
	"errors"
	"io"
	"net/http"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the JSON error envelope
func WriteError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, ErrorEnvelope{
		Error: APIError{Code: code, Message: message, Field: field},
	})
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeAppError renders a usecase error; unclassified errors are counted and logged, then hidden
func writeAppError(w http.ResponseWriter, r *http.Request, log logger.Logger, m *metrics.Metrics, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		WriteError(w, statusFor(ae.Kind), string(ae.Kind), ae.Message, ae.Field)
		return
	}
	m.Error(routeLabel(r))
	log.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	WriteError(w, http.StatusInternalServerError, string(apperr.KindInternal), "internal server error", "")
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "request body is required", "")
			return false
		}
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", "")
		return false
	}
	return true
}
