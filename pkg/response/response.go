// Package response builds the JSON envelope every endpoint returns:
//
//	{"success": true, "message": "...", "data": {...}, ...extra}
//
// Extra keys (pagination metadata, diagnostic error strings) are flattened
// into the top level of the envelope. Handlers call Format explicitly;
// there is no ambient per-request response state.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrianfauzi/warungku/pkg/apperr"
)

// Extra holds additional top-level envelope keys, e.g. pagination fields.
type Extra map[string]interface{}

// Format writes the envelope with the given status code. data and extra
// may be nil; a nil data is omitted from the body.
func Format(w http.ResponseWriter, status int, success bool, message string, data interface{}, extra Extra) {
	body := map[string]interface{}{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extra {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 envelope.
func Success(w http.ResponseWriter, message string, data interface{}) {
	Format(w, http.StatusOK, true, message, data, nil)
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, message string, data interface{}) {
	Format(w, http.StatusCreated, true, message, data, nil)
}

// Error sends a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	Format(w, status, false, message, nil, nil)
}

// FromError maps an error to its HTTP status via its apperr kind and writes
// the failure envelope. Upstream faults keep the underlying message in an
// "error" extra for diagnostics; stack traces are never included.
func FromError(w http.ResponseWriter, err error) {
	kind, _ := apperr.KindOf(err)

	var appErr *apperr.Error
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch kind {
	case apperr.Validation:
		Error(w, http.StatusBadRequest, message)
	case apperr.Unauthenticated:
		Error(w, http.StatusUnauthorized, message)
	case apperr.InvalidToken:
		Error(w, http.StatusForbidden, message)
	case apperr.NotFound:
		Error(w, http.StatusNotFound, message)
	case apperr.Conflict:
		Error(w, http.StatusConflict, message)
	default:
		extra := Extra{}
		if appErr != nil && appErr.Err != nil {
			extra["error"] = appErr.Err.Error()
		}
		Format(w, http.StatusInternalServerError, false, "Internal Server Error", nil, extra)
	}
}
