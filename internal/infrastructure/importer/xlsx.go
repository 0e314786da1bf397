// Package importer parses uploaded spreadsheets into import rows. Parsing is
// structural only; field validation belongs to the import service.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

var requiredColumns = []string{"nombre_paciente", "nombre_prueba", "resultados", "costo"}

// ParseResultsSheet reads the first sheet of an .xlsx upload. The first row
// must carry the column headers; every following row becomes one
// ResultRowInput with its 1-based sheet line number.
func ParseResultsSheet(r io.Reader) ([]ports.ResultRowInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]ports.ResultRowInput, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		out = append(out, ports.ResultRowInput{
			Line:           i + 2, // sheet rows are 1-based, row 1 is the header
			NombrePaciente: cellAt(row, cols["nombre_paciente"]),
			NombrePrueba:   cellAt(row, cols["nombre_prueba"]),
			Resultados:     cellAt(row, cols["resultados"]),
			Costo:          cellAt(row, cols["costo"]),
		})
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("spreadsheet is missing column %q", want)
		}
	}
	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
