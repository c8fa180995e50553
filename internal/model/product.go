package model

import (
	"sort"
	"strings"
	"time"
)

// Product is one price-tagged item in a store's catalog. Field names follow
// the on-disk JSON documents.
type Product struct {
	Codigo          string        `json:"codigo"`
	Nome            string        `json:"nome"`
	Medida          string        `json:"medida"`
	Preco           float64       `json:"preco" validate:"gte=0"`
	IsNew           bool          `json:"isNew"`
	IsInactive      bool          `json:"isInactive"`
	IsDeleted       bool          `json:"isDeleted"`
	HistoricoPrecos []PriceChange `json:"historicoPrecos" validate:"dive"`
}

// PriceChange records a price a product had before it was changed, and when.
type PriceChange struct {
	Preco float64   `json:"preco" validate:"gte=0"`
	Data  time.Time `json:"data"`
}

// Status is the lifecycle state of a product.
type Status string

// Product statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// DefaultCodigo is the identifier given to freshly created products.
const DefaultCodigo = "0000"

// NewProduct returns a product with the defaults used for a new catalog row.
func NewProduct() Product {
	return Product{
		Codigo:          DefaultCodigo,
		Preco:           0,
		IsNew:           true,
		HistoricoPrecos: []PriceChange{},
	}
}

// Status derives the lifecycle state. Deleted wins over inactive.
func (p Product) Status() Status {
	switch {
	case p.IsDeleted:
		return StatusDeleted
	case p.IsInactive:
		return StatusInactive
	default:
		return StatusActive
	}
}

// Printable reports whether the product may be selected for printing.
func (p Product) Printable() bool {
	return p.Status() == StatusActive
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	c := p
	c.HistoricoPrecos = append([]PriceChange{}, p.HistoricoPrecos...)
	return c
}

// CloneAll deep-copies a catalog.
func CloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// Filter returns the products whose name or code contains term, ignoring case.
// An empty term matches everything.
func Filter(products []Product, term string) []Product {
	if term == "" {
		return products
	}
	lower := strings.ToLower(term)
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Nome), lower) ||
			strings.Contains(strings.ToLower(p.Codigo), lower) {
			out = append(out, p)
		}
	}
	return out
}

// SortActive orders a listing with inactive products last, keeping the
// catalog order otherwise.
func SortActive(products []Product) []Product {
	out := append([]Product{}, products...)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].IsInactive && out[j].IsInactive
	})
	return out
}
