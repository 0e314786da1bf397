package report

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

const (
	pdfTitle    = "RESULTADOS DE ANALISIS DEL PACIENTE"
	pdfSubtitle = "En vamiLabs revisamos sus analisis con cuidado, arrojaron lo siguiente"
	pdfIntro    = "El paciente presenta en el analisis:"
)

// PDFRenderer lays each result out as a formatted paragraph in a paged
// document with a title and subtitle header.
type PDFRenderer struct {
	dir string
}

// NewPDFRenderer writes artifacts into dir (the OS temp dir when empty).
func NewPDFRenderer(dir string) *PDFRenderer {
	return &PDFRenderer{dir: dir}
}

func (r *PDFRenderer) Render(results []domain.Result) (string, error) {
	tmp, err := os.CreateTemp(r.dir, "resultados-*.pdf")
	if err != nil {
		return "", fmt.Errorf("pdf temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, pdfTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, pdfSubtitle, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, pdfIntro, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, res := range results {
		line := fmt.Sprintf("%s  %s  %s  %.2f", res.NombrePaciente, res.NombrePrueba, res.Resultados, res.Costo)
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("pdf output: %w", err)
	}
	return path, nil
}
