// Package export writes a store's catalog as an XLSX price list.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/etiquetas/internal/layout"
	"github.com/erazemk/etiquetas/internal/model"
)

// Sheet names.
const (
	SheetProducts = "Produtos"
	SheetHistory  = "Historico"
)

var (
	productHeader = []any{"Código", "Nome", "Medida", "Preço", "Etiqueta", "Status", "Novo"}
	historyHeader = []any{"Código", "Nome", "Preço anterior", "Alterado em"}
)

// WriteCatalog writes the products of one store to w. Deleted products are
// included and marked by their status.
func WriteCatalog(w io.Writer, store model.Store, products []model.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProducts); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Etiquetas - " + store.Name,
		Subject: store.ID,
		Creator: "etiquetas",
	}); err != nil {
		return fmt.Errorf("setting properties: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeProducts(f, products, header, money); err != nil {
		return err
	}
	if err := writeHistory(f, products, header, money); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeProducts(f *excelize.File, products []model.Product, header, money int) error {
	sheet := SheetProducts
	if err := f.SetSheetRow(sheet, "A1", &productHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range products {
		row := []any{p.Codigo, p.Nome, p.Medida, p.Preco, layout.FormatPrice(p.Preco), string(p.Status()), yesNo(p.IsNew)}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return styleSheet(f, sheet, header, money, "D", map[string]float64{"A": 12, "B": 40, "C": 12, "E": 14})
}

func writeHistory(f *excelize.File, products []model.Product, header, money int) error {
	sheet := SheetHistory
	if err := f.SetSheetRow(sheet, "A1", &historyHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	n := 2
	for _, p := range products {
		for _, h := range p.HistoricoPrecos {
			row := []any{p.Codigo, p.Nome, h.Preco, h.Data.Format("2006-01-02 15:04")}
			if err := setRow(f, sheet, n, row); err != nil {
				return err
			}
			n++
		}
	}
	return styleSheet(f, sheet, header, money, "C", map[string]float64{"A": 12, "B": 40, "C": 16, "D": 18})
}

func setRow(f *excelize.File, sheet string, n int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", n, err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, n, err)
	}
	return nil
}

func styleSheet(f *excelize.File, sheet string, header, money int, moneyCol string, widths map[string]float64) error {
	if err := f.SetColStyle(sheet, moneyCol, money); err != nil {
		return fmt.Errorf("styling %s prices: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}
