package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildSheet writes rows into an in-memory workbook and returns its bytes.
// The first row is taken verbatim, so tests control the header.
func buildSheet(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

var header = []any{"nombre_paciente", "nombre_prueba", "resultados", "costo"}

func TestParseResultsSheet(t *testing.T) {
	data := buildSheet(t, [][]any{
		header,
		{"Ana Lopez", "sangre", "glucosa 90 mg/dl", "150.50"},
		{"Luis Mora", "orina", "normal", 80},
	})

	rows, err := ParseResultsSheet(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Errorf("first data row is sheet line 2, got %d", first.Line)
	}
	if first.NombrePaciente != "Ana Lopez" || first.Costo != "150.50" {
		t.Errorf("row parsed wrong: %+v", first)
	}
	// Numeric cells come back as their text rendering; validation is the
	// import service's job.
	if rows[1].Costo != "80" {
		t.Errorf("expected raw cost text %q, got %q", "80", rows[1].Costo)
	}
}

func TestParseResultsSheet_HeaderOrderIrrelevant(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"costo", "resultados", "NOMBRE_PACIENTE", "nombre_prueba"},
		{"99.9", "ok", "Ana", "sangre"},
	})

	rows, err := ParseResultsSheet(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].NombrePaciente != "Ana" || rows[0].Costo != "99.9" {
		t.Errorf("columns must be matched by header name, got %+v", rows[0])
	}
}

func TestParseResultsSheet_MissingColumn(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"nombre_paciente", "nombre_prueba", "resultados"}, // no costo
		{"Ana", "sangre", "ok"},
	})

	_, err := ParseResultsSheet(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for a sheet without the costo column")
	}
	if !strings.Contains(err.Error(), "costo") {
		t.Errorf("error must name the missing column: %v", err)
	}
}

func TestParseResultsSheet_SkipsBlankRows(t *testing.T) {
	data := buildSheet(t, [][]any{
		header,
		{"Ana", "sangre", "ok", "10"},
		{"", "", "", ""},
		{"Luis", "orina", "normal", "20"},
	})

	rows, err := ParseResultsSheet(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("blank rows must be skipped, got %d rows", len(rows))
	}
	if rows[1].Line != 4 {
		t.Errorf("line numbers must track the sheet, got %d", rows[1].Line)
	}
}

func TestParseResultsSheet_ShortRow(t *testing.T) {
	data := buildSheet(t, [][]any{
		header,
		{"Ana", "sangre"}, // trailing cells missing
	})

	rows, err := ParseResultsSheet(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Costo != "" || rows[0].Resultados != "" {
		t.Errorf("missing trailing cells must parse as empty, got %+v", rows[0])
	}
}

func TestParseResultsSheet_NotASpreadsheet(t *testing.T) {
	_, err := ParseResultsSheet(strings.NewReader("definitely,not,xlsx"))
	if err == nil {
		t.Fatal("expected an error for a non-xlsx payload")
	}
}
