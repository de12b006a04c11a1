package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinotinto/certificados/internal/api/middleware"
	"github.com/vinotinto/certificados/internal/api/request"
	"github.com/vinotinto/certificados/internal/api/response"
	"github.com/vinotinto/certificados/internal/core"
)

type Certificate struct {
	svc *core.CertificateService
}

func NewCertificate(svc *core.CertificateService) *Certificate {
	return &Certificate{svc: svc}
}

// Generate runs the issuance pipeline for a cédula.
func (h *Certificate) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateCertificate
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.Generate(r.Context(), core.GenerateParams{
		Cedula:    req.Cedula,
		ContactID: req.ContactID,
		TrainerID: req.TrainerID,
		Fields:    req.Fields,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	middleware.CountCertificateIssued()
	response.WriteJSON(w, http.StatusCreated, cert)
}

// List returns the issuance history for the cédula in the query string.
func (h *Certificate) List(w http.ResponseWriter, r *http.Request) {
	cedula := r.URL.Query().Get("cedula")
	certs, err := h.svc.ListByCedula(r.Context(), cedula)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, certs)
}

// Get returns a single issued certificate.
func (h *Certificate) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireInt64ID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	cert, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, cert)
}

// Delete removes an issued certificate and its stored artifact.
func (h *Certificate) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireInt64ID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
