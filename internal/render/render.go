// Package render draws paginated labels into a PDF sheet.
package render

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/erazemk/etiquetas/internal/layout"
)

// ErrNoPages is returned when there is nothing to draw.
var ErrNoPages = errors.New("no labels to render")

// Font families registered in every document.
const (
	familyName    = "ProductName"
	familyPrice   = "Price"
	familyMeasure = "Measure"

	imageBackground = "background"
	imageBanner     = "banner"
)

// Renderer draws label pages with one set of assets.
type Renderer struct {
	assets   *Assets
	geometry layout.Geometry
	fields   layout.Fields
	log      *slog.Logger
}

// New creates a Renderer. A nil logger uses slog.Default().
func New(assets *Assets, g layout.Geometry, f layout.Fields, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{assets: assets, geometry: g, fields: f, log: logger}
}

// Output describes a written label sheet.
type Output struct {
	Path   string
	Labels int
	Pages  int
}

// OutputName is the sheet file name for the day of t.
func OutputName(t time.Time) string {
	return "etiquetas_" + t.Format("2006-01-02") + ".pdf"
}

// Render writes the pages as one PDF document to w.
func (r *Renderer) Render(w io.Writer, pages []layout.Page, created time.Time) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	g := r.geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("etiquetas", true)
	pdf.SetCreationDate(created)

	pdf.AddUTF8FontFromBytes(familyName, "", r.assets.NameFont)
	pdf.AddUTF8FontFromBytes(familyPrice, "", r.assets.PriceFont)
	pdf.AddUTF8FontFromBytes(familyMeasure, "", r.assets.MeasureFont)
	bg := registerImage(pdf, imageBackground, r.assets.Background.Format, r.assets.Background.Data)
	banner := registerImage(pdf, imageBanner, r.assets.Banner.Format, r.assets.Banner.Data)
	if pdf.Err() {
		return fmt.Errorf("preparing document: %w", pdf.Error())
	}

	for _, page := range pages {
		pdf.AddPage()
		for _, pl := range page.Placements {
			r.drawLabel(pdf, pl, bg, banner)
		}
		if pdf.Err() {
			return fmt.Errorf("drawing page %d: %w", page.Number, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func registerImage(pdf *fpdf.Fpdf, name, format string, data []byte) fpdf.ImageOptions {
	opts := fpdf.ImageOptions{ImageType: format}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	return opts
}

func (r *Renderer) drawLabel(pdf *fpdf.Fpdf, pl layout.Placement, bg, banner fpdf.ImageOptions) {
	g, f := r.geometry, r.fields

	pdf.ImageOptions(imageBackground, pl.X, pl.Y, g.LabelWidth, g.LabelHeight, false, bg, 0, "")
	if pl.Banner {
		h := g.LabelWidth * r.assets.Banner.AspectRatio()
		pdf.ImageOptions(imageBanner, pl.X, pl.Y, g.LabelWidth, h, false, banner, 0, "")
	}

	setStyle(pdf, familyName, f.Name)
	for i, line := range pl.Lines {
		pdf.SetXY(pl.X, pl.Y+f.Name.OffsetY+float64(i)*f.Name.LineHeight)
		pdf.CellFormat(g.LabelWidth, f.Name.LineHeight, line, "", 0, "CT", false, 0, "")
	}

	setStyle(pdf, familyPrice, f.Price)
	pdf.SetXY(pl.X, pl.Y+f.Price.OffsetY)
	pdf.CellFormat(g.LabelWidth, f.Price.FontSize, pl.Price, "", 0, "CT", false, 0, "")

	if pl.Measure != "" {
		setStyle(pdf, familyMeasure, f.Measure)
		pdf.SetXY(pl.X, pl.Y+f.Measure.OffsetY)
		pdf.CellFormat(g.LabelWidth, f.Measure.FontSize, pl.Measure, "", 0, "CT", false, 0, "")
	}
}

func setStyle(pdf *fpdf.Fpdf, family string, f layout.Field) {
	pdf.SetFont(family, "", f.FontSize)
	pdf.SetTextColor(int(f.Color.R), int(f.Color.G), int(f.Color.B))
}

// WriteFile renders the pages into dir under OutputName(now), replacing a
// sheet generated earlier the same day. The file only appears once it is
// complete.
func (r *Renderer) WriteFile(dir string, pages []layout.Page, now time.Time) (*Output, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, OutputName(now))
	tmp, err := os.CreateTemp(dir, ".etiquetas-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) (*Output, error) {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, err
	}

	bw := bufio.NewWriter(tmp)
	if err := r.Render(bw, pages, now); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("writing %s: %w", tmpPath, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("finalizing %s: %w", path, err)
	}

	out := &Output{Path: path, Labels: layout.Count(pages), Pages: len(pages)}
	r.log.Info("label sheet written", "file", path, "labels", out.Labels, "pages", out.Pages)
	return out, nil
}
