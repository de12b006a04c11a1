package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinotinto/certificados/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError maps a service-layer error onto the HTTP status for its
// failure class. The full error text goes to the client only for caller
// faults; infrastructure errors stay generic.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrUpstream):
		WriteError(w, http.StatusBadGateway, "upstream CRM unavailable")
	case errors.Is(err, core.ErrConfiguration):
		WriteError(w, http.StatusServiceUnavailable, "service not configured for this operation")
	default:
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
