package api

import (
	"net/http"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
)

// StoresHandler handles the store list endpoints.
type StoresHandler struct {
	App *app.App
}

type configResponse struct {
	Stores []model.Store `json:"stores"`
	Active string        `json:"active"`
}

type selectRequest struct {
	Active string `json:"active"`
}

// Config handles GET /api/config.
func (h *StoresHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.App.Config()
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := configResponse{Stores: cfg.Stores}
	if active, err := h.App.ActiveStore(r.Context()); err == nil {
		resp.Active = active.ID
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Select handles PUT /api/config.
func (h *StoresHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	if _, err := h.App.SelectStore(r.Context(), req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	h.Config(w, r)
}

// Create handles POST /api/stores.
func (h *StoresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Store
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	cfg, err := h.App.AddStore(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, cfg)
}

// Delete handles DELETE /api/stores/{id}.
func (h *StoresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.App.RemoveStore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, cfg)
}
