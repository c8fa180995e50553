package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *catalog.Repository {
	t.Helper()
	dir := t.TempDir()
	tick := fixedNow
	repo, err := catalog.New(catalog.Options{
		DataDir:    filepath.Join(dir, "data"),
		BackupDir:  filepath.Join(dir, "backups"),
		ConfigPath: filepath.Join(dir, "data", "config.json"),
		Now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
	})
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	return repo
}

func seed(t *testing.T, repo *catalog.Repository, products ...model.Product) {
	t.Helper()
	for i := range products {
		if products[i].HistoricoPrecos == nil {
			products[i].HistoricoPrecos = []model.PriceChange{}
		}
	}
	if _, err := repo.SaveProducts("matriz", products); err != nil {
		t.Fatalf("seeding catalog: %v", err)
	}
}

func openTest(t *testing.T, repo *catalog.Repository) *Session {
	t.Helper()
	s, err := Open(repo, "matriz", WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func readCatalog(t *testing.T, repo *catalog.Repository) []byte {
	t.Helper()
	path, err := repo.StorePath("matriz")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func editOf(p model.Product) Edit {
	return Edit{Original: p.Codigo, Codigo: p.Codigo, Nome: p.Nome, Medida: p.Medida, Preco: p.Preco, IsNew: p.IsNew}
}

func TestOpenEmptyStore(t *testing.T) {
	s := openTest(t, newTestRepo(t))
	if got := s.Products(); len(got) != 0 {
		t.Errorf("expected empty catalog, got %d products", len(got))
	}
	if s.StoreID() != "matriz" {
		t.Errorf("unexpected store id %q", s.StoreID())
	}
}

func TestPriceChangeAppendsHistoryOnce(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, model.Product{Codigo: "1", Nome: "Arroz", Medida: "5kg", Preco: 20})
	s := openTest(t, repo)

	e := editOf(s.Products()[0])
	e.Preco = 22.5
	res, err := s.SaveEdits([]Edit{e})
	if err != nil {
		t.Fatalf("SaveEdits: %v", err)
	}
	if res.PriceChanges != 1 {
		t.Errorf("expected 1 price change, got %d", res.PriceChanges)
	}

	got, _ := repo.LoadProducts("matriz")
	if got[0].Preco != 22.5 {
		t.Errorf("expected price 22.5, got %v", got[0].Preco)
	}
	h := got[0].HistoricoPrecos
	if len(h) != 1 || h[0].Preco != 20 || !h[0].Data.Equal(fixedNow) {
		t.Fatalf("unexpected history: %+v", h)
	}

	// Saving the same values again records nothing.
	res, err = s.SaveEdits([]Edit{e})
	if err != nil {
		t.Fatalf("second SaveEdits: %v", err)
	}
	if res.PriceChanges != 0 {
		t.Errorf("expected no price change, got %d", res.PriceChanges)
	}
	got, _ = repo.LoadProducts("matriz")
	if len(got[0].HistoricoPrecos) != 1 {
		t.Errorf("history grew on unchanged save: %+v", got[0].HistoricoPrecos)
	}
}

func TestSaveEditsRejectsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
	)
	s := openTest(t, repo)
	before := readCatalog(t, repo)

	edits := []Edit{
		{Original: "1", Codigo: "1", Nome: "A", Preco: 1},
		{Original: "2", Codigo: " 1 ", Nome: "B", Preco: 5},
	}
	_, err := s.SaveEdits(edits)
	var dup *catalog.DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIdentifierError, got %v", err)
	}
	if dup.Codigo != "1" {
		t.Errorf("expected duplicate code 1, got %q", dup.Codigo)
	}
	if !bytes.Equal(before, readCatalog(t, repo)) {
		t.Error("catalog changed after rejected save")
	}
	if s.Products()[1].Preco != 2 {
		t.Error("working copy changed after rejected save")
	}
}

func TestSaveEditsAllowsRepeatedEmptyCodes(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
	)
	s := openTest(t, repo)

	_, err := s.SaveEdits([]Edit{
		{Original: "1", Codigo: "", Nome: "A", Preco: 1},
		{Original: "2", Codigo: "  ", Nome: "B", Preco: 2},
	})
	if err != nil {
		t.Fatalf("SaveEdits: %v", err)
	}
	got, _ := repo.LoadProducts("matriz")
	if got[0].Codigo != "" || got[1].Codigo != "" {
		t.Errorf("expected trimmed empty codes, got %q and %q", got[0].Codigo, got[1].Codigo)
	}
}

func TestSaveEditsRenamesByOriginalCode(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
	)
	s := openTest(t, repo)

	// Swap the two codes in one save.
	_, err := s.SaveEdits([]Edit{
		{Original: "1", Codigo: "2", Nome: "A", Preco: 1},
		{Original: "2", Codigo: "1", Nome: "B", Preco: 2},
	})
	if err != nil {
		t.Fatalf("SaveEdits: %v", err)
	}
	got, _ := repo.LoadProducts("matriz")
	if got[0].Codigo != "2" || got[0].Nome != "A" || got[1].Codigo != "1" || got[1].Nome != "B" {
		t.Errorf("unexpected catalog after swap: %+v", got)
	}
}

func TestSaveEditsSkipsDeletedAndUnlisted(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1, IsDeleted: true},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
		model.Product{Codigo: "3", Nome: "C", Preco: 3, IsInactive: true},
	)
	s := openTest(t, repo)

	_, err := s.SaveEdits([]Edit{
		{Original: "1", Codigo: "1", Nome: "Changed", Preco: 9},
		{Original: "3", Codigo: "3", Nome: "C2", Preco: 4},
	})
	if err != nil {
		t.Fatalf("SaveEdits: %v", err)
	}
	got, _ := repo.LoadProducts("matriz")
	if got[0].Nome != "A" || got[0].Preco != 1 {
		t.Errorf("deleted product was edited: %+v", got[0])
	}
	if got[1].Nome != "B" || len(got[1].HistoricoPrecos) != 0 {
		t.Errorf("unlisted product changed: %+v", got[1])
	}
	if got[2].Nome != "C2" || !got[2].IsInactive {
		t.Errorf("inactive flag must survive edits: %+v", got[2])
	}
}

func TestSoftDeleteRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
	)
	s := openTest(t, repo)
	before := readCatalog(t, repo)

	if _, err := s.Delete("2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s.Active(""); len(got) != 1 || got[0].Codigo != "1" {
		t.Errorf("unexpected active list after delete: %+v", got)
	}
	if got := s.Trash(""); len(got) != 1 || got[0].Codigo != "2" {
		t.Errorf("unexpected trash after delete: %+v", got)
	}
	if _, err := s.Delete("2"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("deleting a trashed product: expected ErrProductNotFound, got %v", err)
	}

	if _, err := s.Restore("2"); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !bytes.Equal(before, readCatalog(t, repo)) {
		t.Error("catalog differs after delete and restore")
	}
}

func TestToggleInactive(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Preco: 1},
		model.Product{Codigo: "2", Nome: "B", Preco: 2},
	)
	s := openTest(t, repo)

	if _, err := s.ToggleInactive("1"); err != nil {
		t.Fatalf("ToggleInactive: %v", err)
	}
	active := s.Active("")
	if active[0].Codigo != "2" || active[1].Codigo != "1" {
		t.Errorf("inactive products must be listed last: %+v", active)
	}
	got, _ := repo.LoadProducts("matriz")
	if !got[0].IsInactive {
		t.Error("toggle was not saved")
	}
	if _, err := s.ToggleInactive("1"); err != nil {
		t.Fatal(err)
	}
	if s.Products()[0].IsInactive {
		t.Error("second toggle did not reactivate")
	}
	if _, err := s.ToggleInactive("missing"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddPrependsDefaults(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, model.Product{Codigo: "1", Nome: "A", Preco: 1})
	s := openTest(t, repo)

	if _, err := s.Add(); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, _ := repo.LoadProducts("matriz")
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].Codigo != model.DefaultCodigo || got[1].Codigo != "1" {
		t.Errorf("new product must be first: %+v", got)
	}
}

func TestDiscardReloads(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, model.Product{Codigo: "1", Nome: "A", Preco: 1})
	s := openTest(t, repo)

	seed(t, repo, model.Product{Codigo: "9", Nome: "Z", Preco: 9})
	if s.Products()[0].Codigo != "1" {
		t.Fatal("working copy must not follow disk before Discard")
	}
	if err := s.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if s.Products()[0].Codigo != "9" {
		t.Error("Discard did not reload from disk")
	}
}

func TestSelections(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		model.Product{Codigo: "1", Nome: "A", Medida: "1kg", Preco: 1, IsNew: true},
		model.Product{Codigo: "2", Nome: "B", Preco: 2, IsInactive: true},
		model.Product{Codigo: "3", Nome: "C", Preco: 3, IsDeleted: true},
	)
	s := openTest(t, repo)

	got, err := s.Selections([]Request{{Codigo: "1", Quantity: 3}})
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}
	if len(got) != 1 || got[0].Nome != "A" || got[0].Quantity != 3 || !got[0].IsNew {
		t.Errorf("unexpected selection: %+v", got)
	}

	tests := []struct {
		name string
		reqs []Request
		want error
	}{
		{"empty", nil, ErrNothingToPrint},
		{"inactive", []Request{{Codigo: "2"}}, ErrNotPrintable},
		{"deleted", []Request{{Codigo: "3"}}, ErrNotPrintable},
		{"unknown", []Request{{Codigo: "4"}}, ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Selections(tt.reqs); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReconcileDoesNotModifyInput(t *testing.T) {
	in := []model.Product{{Codigo: "1", Nome: "A", Preco: 1, HistoricoPrecos: []model.PriceChange{}}}
	out, n, err := Reconcile(in, []Edit{{Original: "1", Codigo: "1", Nome: "A", Preco: 2}}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || len(out[0].HistoricoPrecos) != 1 {
		t.Errorf("expected one recorded change, got %d and %+v", n, out[0].HistoricoPrecos)
	}
	if in[0].Preco != 1 || len(in[0].HistoricoPrecos) != 0 {
		t.Errorf("input modified: %+v", in[0])
	}
}
