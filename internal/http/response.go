package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/log"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.FromContext(r.Context()).Error("Failed to encode response", "error", err, log.FieldStatusCode, status)
	}
}

// handleError maps core errors onto status codes. Store failures are logged
// and reported with the generic message instead of the cause.
func handleError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger := log.FromContext(r.Context())
	fields := log.NewFields().WithError(err).WithOperation(r.Method + " " + r.URL.Path)

	switch {
	case errors.Is(err, core.ErrInvalid):
		logger.Warn("Invalid request", fields.WithErrorType(log.ErrorTypeValidation).ToSlice()...)
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, core.ErrNotFound):
		logger.Warn("Record not found", fields.WithErrorType(log.ErrorTypeNotFound).ToSlice()...)
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, core.ErrDuplicateID):
		logger.Warn("Duplicate record", fields.WithErrorType(log.ErrorTypeConflict).ToSlice()...)
		writeJSON(w, r, http.StatusConflict, errorResponse{Error: err.Error()})

	default:
		logger.Error(message, fields.WithErrorType(log.ErrorTypeDatabase).ToSlice()...)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: message})
	}
}

// decodeJSON reads one JSON document from the request body. Malformed bodies
// are reported as invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", core.ErrInvalid)
		}
		return fmt.Errorf("%w: malformed JSON: %v", core.ErrInvalid, err)
	}
	return nil
}
