package app

import (
	"errors"

	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/render"
	"github.com/erazemk/etiquetas/internal/session"
)

// KindAsset classifies label artwork or font failures.
const KindAsset = "asset"

// ErrRunNotFound indicates no print run has the given ID.
var ErrRunNotFound = errors.New("print run not found")

// Kind classifies any error returned by App into a stable kind string.
func Kind(err error) string {
	var ae *render.AssetMissingError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return KindAsset
	case errors.Is(err, session.ErrProductNotFound),
		errors.Is(err, ErrRunNotFound):
		return catalog.KindNotFound
	case errors.Is(err, session.ErrNothingToPrint),
		errors.Is(err, session.ErrNotPrintable),
		errors.Is(err, render.ErrNoPages),
		errors.Is(err, model.ErrTooManyLabels):
		return catalog.KindValidation
	default:
		return catalog.Kind(err)
	}
}
