package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vinotinto/certificados/internal/api/middleware"
	"github.com/vinotinto/certificados/internal/api/request"
	"github.com/vinotinto/certificados/internal/api/response"
	"github.com/vinotinto/certificados/internal/core"
)

// Public serves the unauthenticated self-serve certificate lookup. Student
// facing messages are in Spanish.
type Public struct {
	certs  *core.CertificateService
	tokens *middleware.TokenIssuer
}

func NewPublic(certs *core.CertificateService, tokens *middleware.TokenIssuer) *Public {
	return &Public{certs: certs, tokens: tokens}
}

// Token hands the lookup form its anti-abuse token.
func (h *Public) Token(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"token": h.tokens.Issue()})
}

// Certificates lists a student's certificates by cédula. The token gate
// runs before input validation so expired forms never learn whether a
// cédula exists.
func (h *Public) Certificates(w http.ResponseWriter, r *http.Request) {
	var req request.PublicCertificates
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "Solicitud inválida.")
		return
	}
	if !h.tokens.Verify(req.Token) {
		response.WriteError(w, http.StatusForbidden, "Sesión expirada. Recarga la página e intenta de nuevo.")
		return
	}
	if !request.ValidCedula(req.Cedula) {
		response.WriteError(w, http.StatusBadRequest, "Número de cédula inválido. Debe contener solo dígitos (5 a 12).")
		return
	}

	certs, err := h.certs.StudentCertificates(r.Context(), req.Cedula)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	// An empty list is a successful answer; the form renders its own
	// "no certificates" message.
	response.WriteJSON(w, http.StatusOK, map[string]any{"certificados": certs})
}
