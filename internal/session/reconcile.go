package session

import (
	"strings"
	"time"

	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
)

// Edit carries the submitted fields of one listed product. Original is the
// codigo the product had when it was listed; Codigo may rename it.
type Edit struct {
	Original string  `json:"original"`
	Codigo   string  `json:"codigo"`
	Nome     string  `json:"nome"`
	Medida   string  `json:"medida"`
	Preco    float64 `json:"preco"`
	IsNew    bool    `json:"isNew"`
}

// Reconcile applies a batch of edits to a catalog and returns the new
// catalog and the number of price changes recorded. The input is not
// modified.
//
// Duplicate checking uses the submitted codes, matching uses the original
// ones. Deleted products and products without an edit are kept unchanged.
func Reconcile(products []model.Product, edits []Edit, now time.Time) ([]model.Product, int, error) {
	seen := make(map[string]bool, len(edits))
	byOriginal := make(map[string]Edit, len(edits))
	for _, e := range edits {
		e.Codigo = strings.TrimSpace(e.Codigo)
		if e.Codigo != "" && seen[e.Codigo] {
			return nil, 0, &catalog.DuplicateIdentifierError{Codigo: e.Codigo}
		}
		seen[e.Codigo] = true
		byOriginal[e.Original] = e
	}

	out := model.CloneAll(products)
	changes := 0
	for i := range out {
		p := &out[i]
		if p.IsDeleted {
			continue
		}
		e, ok := byOriginal[p.Codigo]
		if !ok {
			continue
		}
		if p.Preco != e.Preco {
			p.HistoricoPrecos = append(p.HistoricoPrecos, model.PriceChange{Preco: p.Preco, Data: now})
			changes++
		}
		p.Codigo = e.Codigo
		p.Nome = e.Nome
		p.Medida = e.Medida
		p.Preco = e.Preco
		p.IsNew = e.IsNew
	}
	return out, changes, nil
}
