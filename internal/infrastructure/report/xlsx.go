// Package report renders result sets into downloadable artifacts. Renderers
// write into scoped temporary files; the file is handed to the caller on
// success and removed here on any failure path.
package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

const sheetName = "Resultados"

var xlsxHeader = []string{"id", "nombre_paciente", "nombre_prueba", "resultados", "costo"}

// XLSXRenderer serializes result rows into a single-sheet spreadsheet.
type XLSXRenderer struct {
	dir string
}

// NewXLSXRenderer writes artifacts into dir (the OS temp dir when empty).
func NewXLSXRenderer(dir string) *XLSXRenderer {
	return &XLSXRenderer{dir: dir}
}

func (r *XLSXRenderer) Render(results []domain.Result) (string, error) {
	tmp, err := os.CreateTemp(r.dir, "resultados-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("xlsx temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("xlsx sheet: %w", err)
	}

	for col, title := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
	}

	for i, res := range results {
		row := i + 2 // row 1 is the header
		values := []any{res.ID, res.NombrePaciente, res.NombrePrueba, res.Resultados, res.Costo}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("xlsx save: %w", err)
	}
	return path, nil
}
