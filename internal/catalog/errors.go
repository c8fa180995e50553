package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check these.
var (
	// ErrInvalidStoreID indicates a store identifier with no usable characters.
	ErrInvalidStoreID = errors.New("invalid store id")

	// ErrStoreExists indicates a store with the same ID is already configured.
	ErrStoreExists = errors.New("store already exists")

	// ErrStoreNotFound indicates the store is not in the config document.
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreProtected indicates an attempt to remove the first or the active store.
	ErrStoreProtected = errors.New("store cannot be removed")

	// ErrBackupNotFound indicates the named backup does not exist for the store.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrCorrupt indicates a document exists but cannot be decoded.
	ErrCorrupt = errors.New("corrupt document")
)

// ValidationError rejects a product list before any file is touched.
// Index is -1 when the document as a whole is malformed.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "invalid product list: " + e.Reason
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid product at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid product at index %d: %s %s", e.Index, e.Field, e.Reason)
}

// DuplicateIdentifierError rejects an edit batch in which two products share
// the same non-empty codigo.
type DuplicateIdentifierError struct {
	Codigo string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate product code %q", e.Codigo)
}

// StorageError wraps a failed filesystem operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Error kinds reported to collaborators alongside the message.
const (
	KindValidation = "validation"
	KindDuplicate  = "duplicate"
	KindStorage    = "storage"
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindInternal   = "internal"
)

// Kind classifies an error from this package.
func Kind(err error) string {
	var ve *ValidationError
	var de *DuplicateIdentifierError
	var se *StorageError
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrInvalidStoreID):
		return KindValidation
	case errors.As(err, &de):
		return KindDuplicate
	case errors.Is(err, ErrStoreNotFound), errors.Is(err, ErrBackupNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreExists), errors.Is(err, ErrStoreProtected):
		return KindConflict
	case errors.As(err, &se):
		return KindStorage
	default:
		return KindInternal
	}
}
