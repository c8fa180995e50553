package layout

import "github.com/erazemk/etiquetas/internal/model"

// Placement is one label positioned on a page.
type Placement struct {
	// Index is the item's position in the input sequence.
	Index   int
	Item    model.PrintItem
	X, Y    float64
	Lines   []string
	Price   string
	Measure string
	Banner  bool
}

// Page is one sheet of placements in print order.
type Page struct {
	Number     int
	Placements []Placement
}

// Paginate packs items row by row onto pages in input order. Repeated items
// must already be expanded.
func Paginate(items []model.PrintItem, g Geometry, f Fields) []Page {
	if len(items) == 0 {
		return nil
	}

	pages := []Page{{Number: 1}}
	x, y := g.MarginLeft, g.MarginTop
	onRow := 0

	for i, item := range items {
		if onRow >= g.PerRow {
			x = g.MarginLeft
			y += g.LabelHeight + g.GapY
			onRow = 0
		}
		cur := &pages[len(pages)-1]
		if y+g.LabelHeight > g.PrintableBottom() && len(cur.Placements) > 0 {
			pages = append(pages, Page{Number: len(pages) + 1})
			x, y = g.MarginLeft, g.MarginTop
			onRow = 0
		}

		cur = &pages[len(pages)-1]
		cur.Placements = append(cur.Placements, Placement{
			Index:   i,
			Item:    item,
			X:       x,
			Y:       y,
			Lines:   Wrap(item.Nome, f.WrapWidth),
			Price:   FormatPrice(item.Preco),
			Measure: item.Medida,
			Banner:  item.IsNew,
		})

		x += g.LabelWidth + g.GapX
		onRow++
	}
	return pages
}

// Count returns the total number of placements across pages.
func Count(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Placements)
	}
	return n
}
