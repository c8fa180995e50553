package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/erazemk/etiquetas/internal/model"
)

// BackupRetention is the number of backups kept per store.
const BackupRetention = 5

// removeFile deletes pruned backups. Tests replace it.
var removeFile = os.Remove

// backupTimeFormat sorts lexicographically in chronological order.
const backupTimeFormat = "2006-01-02T15-04-05.000000000Z"

// Backup is a snapshot of a store's catalog taken before an overwrite.
type Backup struct {
	Name      string    `json:"name"`
	StoreID   string    `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

func backupName(storeID string, t time.Time) string {
	return storeID + "_" + t.UTC().Format(backupTimeFormat) + ".json"
}

// parseBackupName returns the timestamp embedded in a backup name that
// belongs to storeID.
func parseBackupName(storeID, name string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, storeID+"_")
	if !ok {
		return time.Time{}, false
	}
	rest, ok = strings.CutSuffix(rest, ".json")
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(backupTimeFormat, rest)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// backup copies src into the backup directory. It returns the backup name,
// or "" when src does not exist.
func (r *Repository) backup(storeID, src string) (string, error) {
	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	// The name is the sort key. It must sort after every existing backup of
	// the store, even when the clock stepped back or did not advance.
	existing, err := r.listBackups(storeID)
	if err != nil {
		return "", err
	}
	t := r.now().UTC()
	if len(existing) > 0 && !t.After(existing[0].CreatedAt) {
		t = existing[0].CreatedAt.Add(time.Nanosecond)
	}
	name := backupName(storeID, t)
	dst := filepath.Join(r.backupDir, name)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &StorageError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", &StorageError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", &StorageError{Op: "close", Path: dst, Err: err}
	}
	return name, nil
}

// prune removes the oldest backups of a store beyond BackupRetention.
func (r *Repository) prune(storeID string) ([]string, error) {
	backups, err := r.listBackups(storeID)
	if err != nil {
		return nil, err
	}
	if len(backups) <= BackupRetention {
		return nil, nil
	}

	// listBackups is newest first.
	var removed []string
	var errs []error
	for _, b := range backups[BackupRetention:] {
		path := filepath.Join(r.backupDir, b.Name)
		if err := removeFile(path); err != nil {
			errs = append(errs, &StorageError{Op: "remove", Path: path, Err: err})
			continue
		}
		removed = append(removed, b.Name)
	}
	return removed, errors.Join(errs...)
}

// ListBackups returns a store's backups, newest first.
func (r *Repository) ListBackups(storeID string) ([]Backup, error) {
	safe := SanitizeStoreID(storeID)
	if safe == "" {
		return nil, ErrInvalidStoreID
	}
	return r.listBackups(safe)
}

func (r *Repository) listBackups(storeID string) ([]Backup, error) {
	entries, err := os.ReadDir(r.backupDir)
	if err != nil {
		return nil, &StorageError{Op: "readdir", Path: r.backupDir, Err: err}
	}

	var backups []Backup
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		t, ok := parseBackupName(storeID, e.Name())
		if !ok {
			continue
		}
		b := Backup{Name: e.Name(), StoreID: storeID, CreatedAt: t}
		if info, err := e.Info(); err == nil {
			b.Size = info.Size()
		}
		backups = append(backups, b)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// RestoreBackup saves the contents of a backup as the store's catalog.
// The catalog being replaced is itself backed up.
func (r *Repository) RestoreBackup(storeID, name string) (*SaveResult, error) {
	safe := SanitizeStoreID(storeID)
	if safe == "" {
		return nil, ErrInvalidStoreID
	}
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}
	if _, ok := parseBackupName(safe, name); !ok {
		return nil, fmt.Errorf("%w: %s for store %s", ErrBackupNotFound, name, safe)
	}

	path := filepath.Join(r.backupDir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &StorageError{Op: "decode", Path: path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return r.SaveProducts(storeID, products)
}
