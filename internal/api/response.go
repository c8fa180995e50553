package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
)

// maxBodyBytes bounds request bodies; catalogs are a few hundred products.
const maxBodyBytes = 8 << 20

// jsonResponse sends data as the JSON body. A nil data sends only the status.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError sends the {"error", "kind"} body shared by every failing endpoint.
func jsonError(w http.ResponseWriter, status int, kind, message string) {
	jsonResponse(w, status, map[string]string{"error": message, "kind": kind})
}

// statusByKind maps error kinds to HTTP status codes.
var statusByKind = map[string]int{
	catalog.KindValidation: http.StatusBadRequest,
	catalog.KindDuplicate:  http.StatusConflict,
	catalog.KindConflict:   http.StatusConflict,
	catalog.KindNotFound:   http.StatusNotFound,
	catalog.KindStorage:    http.StatusInternalServerError,
	app.KindAsset:          http.StatusInternalServerError,
	catalog.KindInternal:   http.StatusInternalServerError,
}

// writeError reports an App error with its kind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := app.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}
	jsonError(w, status, kind, err.Error())
}

// decodeJSON reads a request body of at most maxBodyBytes into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target)
}
