package handler

import (
	"net/http"

	"github.com/vinotinto/certificados/internal/api/request"
	"github.com/vinotinto/certificados/internal/api/response"
	"github.com/vinotinto/certificados/internal/contact"
	"github.com/vinotinto/certificados/internal/crm"
	"github.com/vinotinto/certificados/internal/model"
)

type Contact struct {
	svc   *contact.Service
	slugs *crm.SlugCache
}

func NewContact(svc *contact.Service, slugs *crm.SlugCache) *Contact {
	return &Contact{svc: svc, slugs: slugs}
}

type contactSearchResponse struct {
	Contact    *model.ContactRecord `json:"contact"`
	KnownSlugs []string             `json:"known_slugs,omitempty"`
}

// Search resolves a contact by cédula and returns it with the CRM's known
// custom-field slugs.
func (h *Contact) Search(w http.ResponseWriter, r *http.Request) {
	var req request.SearchContact
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.svc.FindByCedula(r.Context(), req.Cedula)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	resp := contactSearchResponse{Contact: rec}
	if h.slugs != nil {
		resp.KnownSlugs = h.slugs.Known(r.Context(), req.RefreshSlugs)
	}
	response.WriteJSON(w, http.StatusOK, resp)
}
