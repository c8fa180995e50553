package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/session"
)

// LabelsHandler handles label sheet endpoints.
type LabelsHandler struct {
	App *app.App
}

type generateRequest struct {
	StoreID    string            `json:"store_id"`
	Selections []model.Selection `json:"selections"`
}

type storedRequest struct {
	Items []session.Request `json:"items"`
}

// Generate handles POST /api/labels. Selections carry the label fields as
// shown to the operator, saved or not.
func (h *LabelsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	run, err := h.App.GenerateLabels(r.Context(), req.StoreID, req.Selections)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("labels generated", "store", run.StoreID, "labels", run.Labels, "pages", run.Pages, "file", run.File)
	jsonResponse(w, http.StatusCreated, run)
}

// GenerateStored handles POST /api/stores/{id}/labels for saved products.
func (h *LabelsHandler) GenerateStored(w http.ResponseWriter, r *http.Request) {
	var req storedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	run, err := h.App.PrintStored(r.Context(), r.PathValue("id"), req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("labels generated", "store", run.StoreID, "labels", run.Labels, "pages", run.Pages, "file", run.File)
	jsonResponse(w, http.StatusCreated, run)
}

// Runs handles GET /api/runs.
func (h *LabelsHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.App.PrintRuns(r.Context(), r.URL.Query().Get("store"), limitParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []model.PrintRun{}
	}
	jsonResponse(w, http.StatusOK, runs)
}

// Run handles GET /api/runs/{id}.
func (h *LabelsHandler) Run(w http.ResponseWriter, r *http.Request) {
	run, err := h.App.PrintRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, run)
}
