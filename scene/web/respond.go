// ABOUTME: JSON response helpers and the mapping from domain errors to HTTP status codes.
// ABOUTME: Error bodies are {"error": "..."} for every failure.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/export"
	"github.com/2389-research/tracie/scene/files"
	"github.com/2389-research/tracie/scene/store"
)

var (
	errSessionNotFound = errors.New("session not found")
	errBadRequest      = errors.New("bad request")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var notFound *core.ShapeNotFoundError
	switch {
	case errors.As(err, &notFound),
		errors.Is(err, core.ErrLinkNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, files.ErrUserAborted):
		return http.StatusConflict
	case errors.Is(err, export.ErrGraphvizMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInvalidSide),
		errors.Is(err, core.ErrSelfLink),
		errors.Is(err, store.ErrInvalidName),
		errors.Is(err, files.ErrEmptyName),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if errors.Is(err, store.ErrNotFound) {
		msg = "File not found"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
