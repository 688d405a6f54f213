package response

import (
	"errors"
	"net/http"

	"github.com/farmassist/auth-service/internal/domain"
	"github.com/farmassist/auth-service/internal/logger"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError converts a domain error into a consistent JSON HTTP error response.
// Non-domain errors become 500 without leaking details. Anything 5xx is logged
// with its cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	p, status := resolve(r, err)
	p.RequestID = RequestIDFromContext(r)
	w.Header().Set("Content-Type", jsonContentType)
	WriteJSON(w, status, ErrorBody{Error: p})
}

// WriteLegacyError writes the flat {"message": ...} body read by the original
// web client. Status codes match WriteError.
func WriteLegacyError(w http.ResponseWriter, r *http.Request, err error) {
	p, status := resolve(r, err)
	w.Header().Set("Content-Type", jsonContentType)
	WriteJSON(w, status, LegacyError{Message: p.Message})
}

type LegacyError struct {
	Message string `json:"message"`
}

func resolve(r *http.Request, err error) (ErrorPayload, int) {
	p := ErrorPayload{Code: "internal_error", Message: "internal error"}
	status := http.StatusInternalServerError

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		p.Code = de.Code
		p.Message = de.Message
		p.Meta = de.Meta
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", p.Code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	return p, status
}

// StatusFor reports the HTTP status WriteError would use for err.
func StatusFor(err error) int {
	var de *domain.Error
	if errors.As(err, &de) {
		return statusFromKind(de.Kind)
	}
	return http.StatusInternalServerError
}

func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
