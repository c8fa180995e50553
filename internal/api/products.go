package api

import (
	"io"
	"net/http"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/session"
)

// ProductsHandler handles catalog endpoints.
type ProductsHandler struct {
	App *app.App
}

type listResponse struct {
	Active []model.Product `json:"active"`
	Trash  []model.Product `json:"trash"`
}

type changeResponse struct {
	listResponse
	PriceChanges int    `json:"price_changes"`
	Backup       string `json:"backup,omitempty"`
}

func emptyIfNil(p []model.Product) []model.Product {
	if p == nil {
		return []model.Product{}
	}
	return p
}

func listing(s *session.Session, term string) listResponse {
	return listResponse{
		Active: emptyIfNil(s.Active(term)),
		Trash:  emptyIfNil(s.Trash(term)),
	}
}

// List handles GET /api/stores/{id}/products. The q parameter filters by
// name or code; all=1 returns the raw catalog instead.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if r.URL.Query().Get("all") == "1" {
		products, err := h.App.Products(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, emptyIfNil(products))
		return
	}

	s, err := h.App.OpenSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, listing(s, r.URL.Query().Get("q")))
}

// Replace handles PUT /api/stores/{id}/products with a whole catalog
// document.
func (h *ProductsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	res, err := h.App.SaveProducts(r.Context(), r.PathValue("id"), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"backup": res.Backup})
}

// Add handles POST /api/stores/{id}/products.
func (h *ProductsHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, http.StatusCreated, func(s *session.Session) (*session.Result, error) {
		return s.Add()
	})
}

// Edit handles POST /api/stores/{id}/edits.
func (h *ProductsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var edits []session.Edit
	if err := decodeJSON(w, r, &edits); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.KindValidation, "invalid request body")
		return
	}
	h.apply(w, r, http.StatusOK, func(s *session.Session) (*session.Result, error) {
		return s.SaveEdits(edits)
	})
}

// Toggle handles POST /api/stores/{id}/products/{codigo}/toggle.
func (h *ProductsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	codigo := r.PathValue("codigo")
	h.apply(w, r, http.StatusOK, func(s *session.Session) (*session.Result, error) {
		return s.ToggleInactive(codigo)
	})
}

// Delete handles DELETE /api/stores/{id}/products/{codigo}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	codigo := r.PathValue("codigo")
	h.apply(w, r, http.StatusOK, func(s *session.Session) (*session.Result, error) {
		return s.Delete(codigo)
	})
}

// Restore handles POST /api/stores/{id}/products/{codigo}/restore.
func (h *ProductsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	codigo := r.PathValue("codigo")
	h.apply(w, r, http.StatusOK, func(s *session.Session) (*session.Result, error) {
		return s.Restore(codigo)
	})
}

func (h *ProductsHandler) apply(w http.ResponseWriter, r *http.Request, status int, op func(*session.Session) (*session.Result, error)) {
	s, res, err := h.App.Apply(r.Context(), r.PathValue("id"), op)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := changeResponse{listResponse: listing(s, ""), PriceChanges: res.PriceChanges}
	if res.Save != nil {
		resp.Backup = res.Save.Backup
	}
	jsonResponse(w, status, resp)
}
