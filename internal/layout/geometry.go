// Package layout places label items on sheet pages. It computes positions
// and text only; drawing is left to the renderer.
package layout

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 2.83465

// Geometry describes the sheet and the label grid. All lengths are in points.
type Geometry struct {
	LabelWidth  float64
	LabelHeight float64
	PageWidth   float64
	PageHeight  float64
	MarginLeft  float64
	MarginTop   float64
	// MarginBottom bounds the printable area.
	MarginBottom float64
	GapX         float64
	GapY         float64
	PerRow       int
}

// DefaultGeometry returns 65x35mm labels, two per row, on an A4 sheet.
func DefaultGeometry() Geometry {
	return Geometry{
		LabelWidth:   65 * PointsPerMM,
		LabelHeight:  35 * PointsPerMM,
		PageWidth:    595.28,
		PageHeight:   841.89,
		MarginLeft:   40,
		MarginTop:    40,
		MarginBottom: 40,
		GapX:         10,
		GapY:         10,
		PerRow:       2,
	}
}

// PrintableBottom is the lowest y a label may reach.
func (g Geometry) PrintableBottom() float64 {
	return g.PageHeight - g.MarginBottom
}

// Rows returns how many label rows fit on one page.
func (g Geometry) Rows() int {
	n := 0
	for y := g.MarginTop; y+g.LabelHeight <= g.PrintableBottom(); y += g.LabelHeight + g.GapY {
		n++
	}
	return n
}

// LabelsPerPage returns the label capacity of one page.
func (g Geometry) LabelsPerPage() int {
	return g.Rows() * g.PerRow
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Label colors.
var (
	White  = Color{255, 255, 255}
	Yellow = Color{0xFC, 0xD9, 0x00}
)

// Role names a text field printed on a label.
type Role string

// Field roles.
const (
	RoleName    Role = "name"
	RolePrice   Role = "price"
	RoleMeasure Role = "measure"
)

// Field is the style and vertical offset of one text field, measured from the
// label's top edge.
type Field struct {
	Role       Role
	OffsetY    float64
	FontSize   float64
	LineHeight float64
	Color      Color
}

// Fields is the per-label text layout.
type Fields struct {
	Name    Field
	Price   Field
	Measure Field

	// WrapWidth is the name's maximum line length in characters.
	WrapWidth int
}

// DefaultFields returns the layout for the default label stock.
func DefaultFields() Fields {
	return Fields{
		Name:      Field{Role: RoleName, OffsetY: 4, FontSize: 14, LineHeight: 15, Color: White},
		Price:     Field{Role: RolePrice, OffsetY: 36, FontSize: 36, Color: Yellow},
		Measure:   Field{Role: RoleMeasure, OffsetY: 80, FontSize: 12, Color: Yellow},
		WrapWidth: 23,
	}
}
