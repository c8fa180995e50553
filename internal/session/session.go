// Package session holds the working copy of one store's catalog while an
// operator edits it. Every mutation is saved through the repository and only
// replaces the working copy once the save succeeded.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
)

var (
	// ErrProductNotFound indicates no product with the given code is in the
	// relevant view.
	ErrProductNotFound = errors.New("product not found")

	// ErrNotPrintable indicates a selected product is inactive or deleted.
	ErrNotPrintable = errors.New("product is not printable")

	// ErrNothingToPrint indicates an empty selection.
	ErrNothingToPrint = errors.New("no products selected")
)

// Repository is the persistence the session needs.
type Repository interface {
	LoadProducts(storeID string) ([]model.Product, error)
	SaveProducts(storeID string, products []model.Product) (*catalog.SaveResult, error)
}

// Session owns the working copy of one store's catalog.
type Session struct {
	repo     Repository
	storeID  string
	products []model.Product
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for price history entries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Result describes a committed change.
type Result struct {
	Save         *catalog.SaveResult
	PriceChanges int
}

// Open loads a store's catalog into a new session.
func Open(repo Repository, storeID string, opts ...Option) (*Session, error) {
	s := &Session{repo: repo, storeID: storeID, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if err := s.Discard(); err != nil {
		return nil, err
	}
	return s, nil
}

// StoreID returns the store this session edits.
func (s *Session) StoreID() string { return s.storeID }

// Products returns a copy of the whole working catalog, including deleted
// products.
func (s *Session) Products() []model.Product {
	return model.CloneAll(s.products)
}

// Active lists non-deleted products matching term, inactive ones last.
func (s *Session) Active(term string) []model.Product {
	var active []model.Product
	for _, p := range s.products {
		if !p.IsDeleted {
			active = append(active, p.Clone())
		}
	}
	return model.SortActive(model.Filter(active, term))
}

// Trash lists deleted products matching term.
func (s *Session) Trash(term string) []model.Product {
	var deleted []model.Product
	for _, p := range s.products {
		if p.IsDeleted {
			deleted = append(deleted, p.Clone())
		}
	}
	return model.Filter(deleted, term)
}

// Discard drops the working copy and reloads it from disk.
func (s *Session) Discard() error {
	products, err := s.repo.LoadProducts(s.storeID)
	if err != nil {
		return fmt.Errorf("loading catalog %s: %w", s.storeID, err)
	}
	s.products = products
	return nil
}

// Add prepends a product with default values and saves the catalog.
func (s *Session) Add() (*Result, error) {
	next := append([]model.Product{model.NewProduct()}, model.CloneAll(s.products)...)
	return s.commit(next, 0)
}

// SaveEdits reconciles submitted edits into the catalog and saves it.
// On any error the working copy is left as it was.
func (s *Session) SaveEdits(edits []Edit) (*Result, error) {
	next, changes, err := Reconcile(s.products, edits, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.commit(next, changes)
}

// ToggleInactive flips the inactive flag of a listed product.
func (s *Session) ToggleInactive(codigo string) (*Result, error) {
	return s.mutate(codigo, false, func(p *model.Product) { p.IsInactive = !p.IsInactive })
}

// Delete moves a listed product to the trash.
func (s *Session) Delete(codigo string) (*Result, error) {
	return s.mutate(codigo, false, func(p *model.Product) { p.IsDeleted = true })
}

// Restore brings a product back from the trash.
func (s *Session) Restore(codigo string) (*Result, error) {
	return s.mutate(codigo, true, func(p *model.Product) { p.IsDeleted = false })
}

// Request asks for copies of a stored product's label.
type Request struct {
	Codigo   string `json:"codigo"`
	Quantity int    `json:"quantity"`
}

// Selections resolves print requests against the stored catalog.
func (s *Session) Selections(reqs []Request) ([]model.Selection, error) {
	if len(reqs) == 0 {
		return nil, ErrNothingToPrint
	}
	out := make([]model.Selection, 0, len(reqs))
	for _, r := range reqs {
		i := s.index(r.Codigo, false)
		if i < 0 {
			if s.index(r.Codigo, true) >= 0 {
				return nil, fmt.Errorf("%w: %s", ErrNotPrintable, r.Codigo)
			}
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, r.Codigo)
		}
		p := s.products[i]
		if !p.Printable() {
			return nil, fmt.Errorf("%w: %s", ErrNotPrintable, r.Codigo)
		}
		out = append(out, model.Selection{PrintItem: p.Item(), Quantity: r.Quantity})
	}
	return out, nil
}

func (s *Session) mutate(codigo string, deleted bool, fn func(*model.Product)) (*Result, error) {
	i := s.index(codigo, deleted)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, codigo)
	}
	next := model.CloneAll(s.products)
	fn(&next[i])
	return s.commit(next, 0)
}

// index returns the first product with the code among deleted or
// non-deleted products.
func (s *Session) index(codigo string, deleted bool) int {
	for i, p := range s.products {
		if p.IsDeleted == deleted && p.Codigo == codigo {
			return i
		}
	}
	return -1
}

func (s *Session) commit(next []model.Product, changes int) (*Result, error) {
	res, err := s.repo.SaveProducts(s.storeID, next)
	if err != nil {
		return nil, err
	}
	s.products = next
	return &Result{Save: res, PriceChanges: changes}, nil
}
