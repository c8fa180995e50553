package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
)

// BackupsHandler handles backup, export and save history endpoints.
type BackupsHandler struct {
	App *app.App
}

// List handles GET /api/stores/{id}/backups.
func (h *BackupsHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.App.Backups(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if backups == nil {
		backups = []catalog.Backup{}
	}
	jsonResponse(w, http.StatusOK, backups)
}

// Restore handles POST /api/stores/{id}/backups/{name}/restore.
func (h *BackupsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	res, err := h.App.RestoreBackup(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"backup": res.Backup})
}

// Export handles GET /api/stores/{id}/export.
func (h *BackupsHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var buf bytes.Buffer
	if err := h.App.Export(id, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+catalog.SanitizeStoreID(id)+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Saves handles GET /api/stores/{id}/saves.
func (h *BackupsHandler) Saves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.App.Saves(r.Context(), r.PathValue("id"), limitParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if saves == nil {
		saves = []model.CatalogSave{}
	}
	jsonResponse(w, http.StatusOK, saves)
}

// limitParam reads the optional limit query parameter.
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
