package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vinotinto/certificados/internal/api/request"
	"github.com/vinotinto/certificados/internal/api/response"
	"github.com/vinotinto/certificados/internal/core"
)

type Trainer struct {
	svc *core.TrainerService
}

func NewTrainer(svc *core.TrainerService) *Trainer {
	return &Trainer{svc: svc}
}

func (h *Trainer) List(w http.ResponseWriter, r *http.Request) {
	trainers, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, trainers)
}

func (h *Trainer) Create(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertTrainer
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	trainer, err := h.svc.Create(r.Context(), core.TrainerParams{
		Name:         req.Name,
		License:      req.License,
		SignatureURL: req.SignatureURL,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, trainer)
}

func (h *Trainer) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireInt64ID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	trainer, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, trainer)
}

func (h *Trainer) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireInt64ID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.UpsertTrainer
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	trainer, err := h.svc.Update(r.Context(), id, core.TrainerParams{
		Name:         req.Name,
		License:      req.License,
		SignatureURL: req.SignatureURL,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, trainer)
}

func (h *Trainer) Delete(w http.ResponseWriter, r *http.Request) {
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
