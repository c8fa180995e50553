// Package app wires the catalog repository, editing sessions, the label
// renderer and the journal into the operations offered to the operator.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/export"
	"github.com/erazemk/etiquetas/internal/journal"
	"github.com/erazemk/etiquetas/internal/layout"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/render"
	"github.com/erazemk/etiquetas/internal/session"
)

// Options configures an App.
type Options struct {
	Repo         *catalog.Repository
	DB           *sql.DB
	Assets       render.AssetFiles
	OutputDir    string
	Geometry     layout.Geometry
	Fields       layout.Fields
	DefaultStore model.Store
	Logger       *slog.Logger
	Now          func() time.Time
}

// App is the application core shared by the CLI and the HTTP API.
type App struct {
	repo         *catalog.Repository
	db           *sql.DB
	assets       render.AssetFiles
	outputDir    string
	geometry     layout.Geometry
	fields       layout.Fields
	defaultStore model.Store
	log          *slog.Logger
	now          func() time.Time
}

// New creates an App. Zero geometry and fields use the label stock defaults.
func New(opts Options) *App {
	a := &App{
		repo:         opts.Repo,
		db:           opts.DB,
		assets:       opts.Assets,
		outputDir:    opts.OutputDir,
		geometry:     opts.Geometry,
		fields:       opts.Fields,
		defaultStore: opts.DefaultStore,
		log:          opts.Logger,
		now:          opts.Now,
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.geometry == (layout.Geometry{}) {
		a.geometry = layout.DefaultGeometry()
	}
	if a.fields == (layout.Fields{}) {
		a.fields = layout.DefaultFields()
	}
	return a
}

// Init writes the default store list on first run.
func (a *App) Init() error {
	created, err := a.repo.Bootstrap(a.defaultStore)
	if err != nil {
		return fmt.Errorf("bootstrapping config: %w", err)
	}
	if created {
		a.log.Info("created default store list", "store", a.defaultStore.ID, "name", a.defaultStore.Name)
	}
	return nil
}

// Config returns the store list.
func (a *App) Config() (model.Config, error) {
	return a.repo.LoadConfig()
}

// ActiveStore returns the last used store if it still exists, otherwise the
// first configured store.
func (a *App) ActiveStore(ctx context.Context) (model.Store, error) {
	cfg, err := a.repo.LoadConfig()
	if err != nil {
		return model.Store{}, err
	}
	if len(cfg.Stores) == 0 {
		return model.Store{}, fmt.Errorf("%w: no stores configured", catalog.ErrStoreNotFound)
	}

	last, ok, err := journal.GetSetting(ctx, a.db, model.SettingLastStore)
	if err != nil {
		a.log.Warn("reading last used store", "error", err)
	}
	if ok {
		if s, found := cfg.Find(last); found {
			return s, nil
		}
	}
	return cfg.Stores[0], nil
}

// SelectStore makes a configured store the active one.
func (a *App) SelectStore(ctx context.Context, id string) (model.Store, error) {
	s, err := a.store(id)
	if err != nil {
		return model.Store{}, err
	}
	if err := journal.SetSetting(ctx, a.db, model.SettingLastStore, s.ID); err != nil {
		return model.Store{}, err
	}
	return s, nil
}

// AddStore adds a store to the list.
func (a *App) AddStore(s model.Store) (model.Config, error) {
	cfg, err := a.repo.AddStore(s)
	if err != nil {
		return cfg, err
	}
	a.log.Info("store added", "store", s.ID)
	return cfg, nil
}

// RemoveStore removes a store from the list. The first store and the active
// store are protected. The store's catalog file is kept.
func (a *App) RemoveStore(ctx context.Context, id string) (model.Config, error) {
	active, err := a.ActiveStore(ctx)
	if err != nil {
		return model.Config{}, err
	}
	cfg, err := a.repo.RemoveStore(id, active.ID)
	if err != nil {
		return cfg, err
	}
	a.log.Info("store removed", "store", id)
	return cfg, nil
}

// OpenSession starts an editing session on a configured store and remembers
// it as the active store. An empty id opens the active store.
func (a *App) OpenSession(ctx context.Context, id string) (*session.Session, error) {
	var s model.Store
	var err error
	if id == "" {
		s, err = a.ActiveStore(ctx)
	} else {
		s, err = a.SelectStore(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if id == "" {
		if err := journal.SetSetting(ctx, a.db, model.SettingLastStore, s.ID); err != nil {
			a.log.Warn("remembering active store", "store", s.ID, "error", err)
		}
	}
	return session.Open(a.repo, s.ID, session.WithClock(a.now))
}

// Apply runs one session operation on a store and journals the save.
func (a *App) Apply(ctx context.Context, id string, op func(*session.Session) (*session.Result, error)) (*session.Session, *session.Result, error) {
	sess, err := a.OpenSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := op(sess)
	if err != nil {
		return sess, nil, err
	}
	a.recordSave(ctx, sess.StoreID(), len(sess.Products()), res.PriceChanges, res.Save)
	return sess, res, nil
}

// Products returns a store's whole catalog.
func (a *App) Products(id string) ([]model.Product, error) {
	s, err := a.store(id)
	if err != nil {
		return nil, err
	}
	return a.repo.LoadProducts(s.ID)
}

// SaveProducts replaces a store's catalog with a JSON document after
// validating it.
func (a *App) SaveProducts(ctx context.Context, id string, data []byte) (*catalog.SaveResult, error) {
	s, err := a.store(id)
	if err != nil {
		return nil, err
	}
	// The current catalog is only read to count price changes. A corrupt
	// file must not block the document that replaces it.
	before, err := a.repo.LoadProducts(s.ID)
	if err != nil {
		a.log.Warn("reading catalog before save", "store", s.ID, "error", err)
		before = nil
	}
	res, err := a.repo.SaveProductsJSON(s.ID, data)
	if err != nil {
		return nil, err
	}
	after, err := a.repo.LoadProducts(s.ID)
	if err != nil {
		a.log.Warn("reading catalog after save", "store", s.ID, "error", err)
		after = nil
	}
	a.recordSave(ctx, s.ID, len(after), historyGrowth(before, after), res)
	return res, nil
}

// Backups lists a store's backups, newest first.
func (a *App) Backups(id string) ([]catalog.Backup, error) {
	s, err := a.store(id)
	if err != nil {
		return nil, err
	}
	return a.repo.ListBackups(s.ID)
}

// RestoreBackup makes a backup the store's current catalog.
func (a *App) RestoreBackup(ctx context.Context, id, name string) (*catalog.SaveResult, error) {
	s, err := a.store(id)
	if err != nil {
		return nil, err
	}
	res, err := a.repo.RestoreBackup(s.ID, name)
	if err != nil {
		return nil, err
	}
	products, err := a.repo.LoadProducts(s.ID)
	if err != nil {
		return nil, err
	}
	a.log.Info("backup restored", "store", s.ID, "backup", name)
	a.recordSave(ctx, s.ID, len(products), 0, res)
	return res, nil
}

// GenerateLabels lays out and renders selections into the day's label sheet.
// Selections carry the label fields as given, so unsaved edits print as
// shown. storeID is only used for the journal.
func (a *App) GenerateLabels(ctx context.Context, storeID string, selections []model.Selection) (*model.PrintRun, error) {
	items, err := model.Expand(selections)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, session.ErrNothingToPrint
	}

	assets, err := render.LoadAssets(a.assets)
	if err != nil {
		return nil, err
	}

	now := a.now()
	pages := layout.Paginate(items, a.geometry, a.fields)
	out, err := render.New(assets, a.geometry, a.fields, a.log).WriteFile(a.outputDir, pages, now)
	if err != nil {
		return nil, err
	}

	run := &model.PrintRun{
		StoreID:   storeID,
		File:      out.Path,
		Labels:    out.Labels,
		Pages:     out.Pages,
		CreatedAt: now,
	}
	// The sheet exists either way; a journal failure must not hide it.
	if err := journal.RecordPrintRun(ctx, a.db, run); err != nil {
		a.log.Error("recording print run", "store", storeID, "file", out.Path, "error", err)
	}
	return run, nil
}

// PrintStored prints labels for stored products of a store.
func (a *App) PrintStored(ctx context.Context, id string, reqs []session.Request) (*model.PrintRun, error) {
	sess, err := a.OpenSession(ctx, id)
	if err != nil {
		return nil, err
	}
	selections, err := sess.Selections(reqs)
	if err != nil {
		return nil, err
	}
	return a.GenerateLabels(ctx, sess.StoreID(), selections)
}

// PrintRuns lists recorded print runs, newest first.
func (a *App) PrintRuns(ctx context.Context, storeID string, limit int) ([]model.PrintRun, error) {
	return journal.ListPrintRuns(ctx, a.db, storeID, limit)
}

// PrintRun returns one recorded print run.
func (a *App) PrintRun(ctx context.Context, id string) (*model.PrintRun, error) {
	run, err := journal.GetPrintRun(ctx, a.db, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// Saves lists recorded catalog saves, newest first.
func (a *App) Saves(ctx context.Context, storeID string, limit int) ([]model.CatalogSave, error) {
	return journal.ListSaves(ctx, a.db, storeID, limit)
}

// Export writes a store's catalog as an XLSX workbook.
func (a *App) Export(id string, w io.Writer) error {
	s, err := a.store(id)
	if err != nil {
		return err
	}
	products, err := a.repo.LoadProducts(s.ID)
	if err != nil {
		return err
	}
	return export.WriteCatalog(w, s, products)
}

// store looks up a configured store.
func (a *App) store(id string) (model.Store, error) {
	cfg, err := a.repo.LoadConfig()
	if err != nil {
		return model.Store{}, err
	}
	s, ok := cfg.Find(id)
	if !ok {
		return model.Store{}, fmt.Errorf("%w: %s", catalog.ErrStoreNotFound, id)
	}
	return s, nil
}

func (a *App) recordSave(ctx context.Context, storeID string, products, changes int, res *catalog.SaveResult) {
	if res == nil {
		return
	}
	save := &model.CatalogSave{
		StoreID:      storeID,
		Products:     products,
		PriceChanges: changes,
		Backup:       res.Backup,
		SavedAt:      a.now(),
	}
	if err := journal.RecordSave(ctx, a.db, save); err != nil {
		a.log.Error("recording catalog save", "store", storeID, "error", err)
		return
	}
	a.log.Info("catalog saved", "store", storeID, "products", products, "price_changes", changes, "backup", res.Backup)
}

// historyGrowth counts price history entries added between two versions of
// a catalog.
func historyGrowth(before, after []model.Product) int {
	n := 0
	for _, p := range after {
		n += len(p.HistoricoPrecos)
	}
	for _, p := range before {
		n -= len(p.HistoricoPrecos)
	}
	return max(n, 0)
}
