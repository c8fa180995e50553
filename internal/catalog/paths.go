package catalog

import (
	"path/filepath"
	"strings"
)

// SanitizeStoreID drops every character that is not an ASCII letter, digit,
// hyphen or underscore.
func SanitizeStoreID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StorePath returns the catalog file for a store, always inside the data
// directory.
func (r *Repository) StorePath(storeID string) (string, error) {
	safe := SanitizeStoreID(storeID)
	if safe == "" {
		return "", ErrInvalidStoreID
	}
	return filepath.Join(r.dataDir, safe+".json"), nil
}
