// Package api exposes the application over a local JSON HTTP API.
package api

import (
	"net/http"

	"github.com/erazemk/etiquetas/internal/app"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(a *app.App) http.Handler {
	mux := http.NewServeMux()

	stores := &StoresHandler{App: a}
	products := &ProductsHandler{App: a}
	backups := &BackupsHandler{App: a}
	labels := &LabelsHandler{App: a}

	// Store list and active store.
	mux.HandleFunc("GET /api/config", stores.Config)
	mux.HandleFunc("PUT /api/config", stores.Select)
	mux.HandleFunc("POST /api/stores", stores.Create)
	mux.HandleFunc("DELETE /api/stores/{id}", stores.Delete)

	// Catalog editing.
	mux.HandleFunc("GET /api/stores/{id}/products", products.List)
	mux.HandleFunc("PUT /api/stores/{id}/products", products.Replace)
	mux.HandleFunc("POST /api/stores/{id}/products", products.Add)
	mux.HandleFunc("POST /api/stores/{id}/edits", products.Edit)
	mux.HandleFunc("POST /api/stores/{id}/products/{codigo}/toggle", products.Toggle)
	mux.HandleFunc("DELETE /api/stores/{id}/products/{codigo}", products.Delete)
	mux.HandleFunc("POST /api/stores/{id}/products/{codigo}/restore", products.Restore)

	// Backups and export.
	mux.HandleFunc("GET /api/stores/{id}/backups", backups.List)
	mux.HandleFunc("POST /api/stores/{id}/backups/{name}/restore", backups.Restore)
	mux.HandleFunc("GET /api/stores/{id}/export", backups.Export)
	mux.HandleFunc("GET /api/stores/{id}/saves", backups.Saves)

	// Label sheets.
	mux.HandleFunc("POST /api/labels", labels.Generate)
	mux.HandleFunc("POST /api/stores/{id}/labels", labels.GenerateStored)
	mux.HandleFunc("GET /api/runs", labels.Runs)
	mux.HandleFunc("GET /api/runs/{id}", labels.Run)

	return mux
}
