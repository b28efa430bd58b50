package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/furisto/companion/memory"
	"github.com/furisto/companion/shared"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response body", "error", err)
	}
}

func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// apiError maps storage and domain errors onto HTTP statuses. Unclassified
// errors become opaque 500s so internals never leak to clients.
func apiError(w http.ResponseWriter, err error) {
	switch {
	case memory.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	case shared.SourceOf(err) == shared.ErrorSourceUser:
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
}
