// Package catalog persists the store list and the per-store product catalogs
// as JSON documents, keeping a rolling window of backups for every catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/etiquetas/internal/model"
)

// Options configures a Repository.
type Options struct {
	DataDir    string
	BackupDir  string
	ConfigPath string

	// Logger receives backup pruning failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Now is the clock used for backup names. Defaults to time.Now.
	Now func() time.Time
}

// Repository owns the on-disk state. It is safe for use by one process;
// there is no cross-process locking.
type Repository struct {
	dataDir    string
	backupDir  string
	configPath string
	log        *slog.Logger
	now        func() time.Time

	// mu serializes read-backup-prune-write sequences within the process.
	mu sync.Mutex
}

// SaveResult describes a successful catalog write.
type SaveResult struct {
	Path   string
	Backup string   // empty when there was no previous catalog
	Pruned []string // backups removed by retention

	// PruneErr is set when an old backup could not be removed. The catalog
	// itself was still written.
	PruneErr error
}

// New creates a Repository, creating its directories if needed.
func New(opts Options) (*Repository, error) {
	if opts.DataDir == "" || opts.BackupDir == "" || opts.ConfigPath == "" {
		return nil, errors.New("data dir, backup dir and config path are required")
	}
	r := &Repository{
		dataDir:    opts.DataDir,
		backupDir:  opts.BackupDir,
		configPath: opts.ConfigPath,
		log:        opts.Logger,
		now:        opts.Now,
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}

	for _, dir := range []string{r.dataDir, r.backupDir, filepath.Dir(r.configPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return r, nil
}

// LoadConfig returns the store list. A missing config yields an empty list.
func (r *Repository) LoadConfig() (model.Config, error) {
	var cfg model.Config
	found, err := readJSON(r.configPath, &cfg)
	if err != nil {
		return model.Config{}, err
	}
	if !found || cfg.Stores == nil {
		cfg.Stores = []model.Store{}
	}
	return cfg, nil
}

// SaveConfig overwrites the config document. Uniqueness of store IDs is the
// caller's responsibility; use AddStore to have it checked.
func (r *Repository) SaveConfig(cfg model.Config) error {
	if cfg.Stores == nil {
		cfg.Stores = []model.Store{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.configPath, cfg)
}

// Bootstrap writes a config containing only def when none exists yet.
// It reports whether a config was created.
func (r *Repository) Bootstrap(def model.Store) (bool, error) {
	if _, err := os.Stat(r.configPath); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, &StorageError{Op: "stat", Path: r.configPath, Err: err}
	}
	if err := validateStore(def); err != nil {
		return false, err
	}
	if err := r.SaveConfig(model.Config{Stores: []model.Store{def}}); err != nil {
		return false, err
	}
	return true, nil
}

// AddStore appends a store to the config after checking its ID is unique.
func (r *Repository) AddStore(s model.Store) (model.Config, error) {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	if err := validateStore(s); err != nil {
		return model.Config{}, err
	}

	cfg, err := r.LoadConfig()
	if err != nil {
		return model.Config{}, err
	}
	if _, ok := cfg.Find(s.ID); ok {
		return model.Config{}, fmt.Errorf("%w: %s", ErrStoreExists, s.ID)
	}
	cfg.Stores = append(cfg.Stores, s)
	if err := r.SaveConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// RemoveStore drops a store from the config. The first store and the
// currently active one cannot be removed. The store's catalog file is kept.
func (r *Repository) RemoveStore(id, activeID string) (model.Config, error) {
	cfg, err := r.LoadConfig()
	if err != nil {
		return model.Config{}, err
	}

	idx := -1
	for i, s := range cfg.Stores {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Config{}, fmt.Errorf("%w: %s", ErrStoreNotFound, id)
	}
	if idx == 0 || id == activeID {
		return model.Config{}, fmt.Errorf("%w: %s", ErrStoreProtected, id)
	}

	cfg.Stores = append(cfg.Stores[:idx:idx], cfg.Stores[idx+1:]...)
	if err := r.SaveConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// LoadProducts returns a store's catalog. A store without a file has an
// empty catalog; a file that cannot be decoded is an error.
func (r *Repository) LoadProducts(storeID string) ([]model.Product, error) {
	path, err := r.StorePath(storeID)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if _, err := readJSON(path, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	for i := range products {
		if products[i].HistoricoPrecos == nil {
			products[i].HistoricoPrecos = []model.PriceChange{}
		}
	}
	return products, nil
}

// SaveProducts validates and writes a store's catalog. The previous file,
// if any, is copied to a backup first and old backups are pruned. Nothing
// is written when validation fails.
func (r *Repository) SaveProducts(storeID string, products []model.Product) (*SaveResult, error) {
	if err := validateProducts(products); err != nil {
		return nil, err
	}
	path, err := r.StorePath(storeID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	safeID := SanitizeStoreID(storeID)
	res := &SaveResult{Path: path}

	res.Backup, err = r.backup(safeID, path)
	if err != nil {
		return nil, err
	}
	if res.Backup != "" {
		res.Pruned, res.PruneErr = r.prune(safeID)
		if res.PruneErr != nil {
			r.log.Warn("backup pruning failed", "store", safeID, "error", res.PruneErr)
		}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}
	return res, nil
}

// SaveProductsJSON validates a raw catalog document and saves it.
func (r *Repository) SaveProductsJSON(storeID string, data []byte) (*SaveResult, error) {
	products, err := ValidateJSON(data)
	if err != nil {
		return nil, err
	}
	return r.SaveProducts(storeID, products)
}

// readJSON decodes the file at path into v. It reports false without error
// when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, &StorageError{Op: "decode", Path: path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers never observe a truncated file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: op, Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
