package handler

import (
	"net/http"
	"strconv"

	"github.com/vinotinto/certificados/internal/api/request"
	"github.com/vinotinto/certificados/internal/api/response"
	"github.com/vinotinto/certificados/internal/core"
)

type Verification struct {
	svc *core.VerificationService
}

func NewVerification(svc *core.VerificationService) *Verification {
	return &Verification{svc: svc}
}

// Create records an admission verification for a cédula.
func (h *Verification) Create(w http.ResponseWriter, r *http.Request) {
	var req request.RecordVerification
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.svc.Record(r.Context(), req.Cedula)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, v)
}

// List returns verification history, filtered by the optional cedula and
// nit query parameters.
func (h *Verification) List(w http.ResponseWriter, r *http.Request) {
	filters := core.ListFilters{
		Cedula:      r.URL.Query().Get("cedula"),
		EmployerNIT: r.URL.Query().Get("nit"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}

	list, err := h.svc.List(r.Context(), filters)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}
