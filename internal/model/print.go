package model

import (
	"errors"
	"fmt"
)

// MaxLabels bounds the labels a single generation may print.
const MaxLabels = 2000

// ErrTooManyLabels indicates selections asking for more than MaxLabels labels.
var ErrTooManyLabels = errors.New("too many labels")

// PrintItem is one label to be printed.
type PrintItem struct {
	Codigo string  `json:"codigo"`
	Nome   string  `json:"nome"`
	Medida string  `json:"medida"`
	Preco  float64 `json:"preco"`
	IsNew  bool    `json:"isNew"`
}

// Selection is a request to print Quantity copies of a product's label.
// The fields are taken as submitted, so unsaved edits print as shown.
type Selection struct {
	PrintItem
	Quantity int `json:"quantity,omitempty"`
}

// Item converts a stored product into the fields printed on its label.
func (p Product) Item() PrintItem {
	return PrintItem{
		Codigo: p.Codigo,
		Nome:   p.Nome,
		Medida: p.Medida,
		Preco:  p.Preco,
		IsNew:  p.IsNew,
	}
}

// Expand flattens selections into the print order, repeating each item
// Quantity times in place. Quantities below 1 count as 1. Nothing is
// allocated when the total would exceed MaxLabels.
func Expand(selections []Selection) ([]PrintItem, error) {
	total := 0
	for _, s := range selections {
		total += max(s.Quantity, 1)
		if total > MaxLabels {
			return nil, fmt.Errorf("%w: more than %d requested", ErrTooManyLabels, MaxLabels)
		}
	}

	items := make([]PrintItem, 0, total)
	for _, s := range selections {
		for range max(s.Quantity, 1) {
			items = append(items, s.PrintItem)
		}
	}
	return items, nil
}
