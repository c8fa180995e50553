package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font/opentype"

	"github.com/erazemk/etiquetas/internal/imaging"
)

// Asset roles.
const (
	RoleBackground  = "background"
	RoleBanner      = "banner"
	RoleNameFont    = "name font"
	RolePriceFont   = "price font"
	RoleMeasureFont = "measure font"
)

// ErrUnsupportedFont is returned for CFF-flavoured OpenType fonts, which the
// PDF writer cannot embed.
var ErrUnsupportedFont = errors.New("CFF outlines are not supported, use a TrueType font")

// AssetMissingError reports an asset that could not be loaded.
type AssetMissingError struct {
	Role string
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("loading %s %s: %v", e.Role, e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error { return e.Err }

// AssetFiles names the artwork and font files inside Dir.
type AssetFiles struct {
	Dir         string
	Background  string
	Banner      string
	NameFont    string
	PriceFont   string
	MeasureFont string
}

// DefaultAssetFiles returns the stock file names inside dir.
func DefaultAssetFiles(dir string) AssetFiles {
	return AssetFiles{
		Dir:         dir,
		Background:  "etiqueta.png",
		Banner:      "faixa.png",
		NameFont:    "Lato-Black.ttf",
		PriceFont:   "Gotham-Black.ttf",
		MeasureFont: "DancingScript-Bold.ttf",
	}
}

// Assets is the loaded artwork and fonts for one label design.
type Assets struct {
	Background  *imaging.Artwork
	Banner      *imaging.Artwork
	NameFont    []byte
	PriceFont   []byte
	MeasureFont []byte
}

// LoadAssets reads and checks every asset. It fails on the first asset that
// is missing or unusable.
func LoadAssets(files AssetFiles) (*Assets, error) {
	var a Assets
	var err error

	if a.Background, err = loadImage(RoleBackground, files.path(files.Background)); err != nil {
		return nil, err
	}
	if a.Banner, err = loadImage(RoleBanner, files.path(files.Banner)); err != nil {
		return nil, err
	}
	if a.NameFont, err = loadFont(RoleNameFont, files.path(files.NameFont)); err != nil {
		return nil, err
	}
	if a.PriceFont, err = loadFont(RolePriceFont, files.path(files.PriceFont)); err != nil {
		return nil, err
	}
	if a.MeasureFont, err = loadFont(RoleMeasureFont, files.path(files.MeasureFont)); err != nil {
		return nil, err
	}
	return &a, nil
}

func (f AssetFiles) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Dir, name)
}

func loadImage(role, path string) (*imaging.Artwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetMissingError{Role: role, Path: path, Err: err}
	}
	art, err := imaging.Prepare(bytes.NewReader(data))
	if err != nil {
		return nil, &AssetMissingError{Role: role, Path: path, Err: err}
	}
	return art, nil
}

func loadFont(role, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetMissingError{Role: role, Path: path, Err: err}
	}
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return nil, &AssetMissingError{Role: role, Path: path, Err: ErrUnsupportedFont}
	}
	if _, err := opentype.Parse(data); err != nil {
		return nil, &AssetMissingError{Role: role, Path: path, Err: fmt.Errorf("parsing font: %w", err)}
	}
	return data, nil
}
