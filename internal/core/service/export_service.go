package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// ExportService builds downloadable report artifacts from the result table.
// Both formats are rendered from a full, non-paginated read; the caller owns
// the returned temporary file and must remove it after streaming.
type ExportService struct {
	results ports.ResultRepository
	xlsx    ports.ResultRenderer
	pdf     ports.ResultRenderer
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

func NewExportService(
	results ports.ResultRepository,
	xlsx ports.ResultRenderer,
	pdf ports.ResultRenderer,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{results: results, xlsx: xlsx, pdf: pdf, audit: audit, log: log}
}

// BuildXLSX renders the full result table as a spreadsheet. The artifact's
// row count equals the table count at query time; no deduplication.
func (s *ExportService) BuildXLSX(ctx context.Context, actor string) (*ports.ExportArtifact, error) {
	return s.build(ctx, actor, "xlsx", "resultados.xlsx", s.xlsx, false)
}

// BuildPDF renders the distinct result rows as a paged document, matching the
// historical report behavior.
func (s *ExportService) BuildPDF(ctx context.Context, actor string) (*ports.ExportArtifact, error) {
	return s.build(ctx, actor, "pdf", "resultadosPDF.pdf", s.pdf, true)
}

func (s *ExportService) build(
	ctx context.Context,
	actor, format, filename string,
	renderer ports.ResultRenderer,
	distinct bool,
) (*ports.ExportArtifact, error) {
	rows, err := s.results.List(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	path, err := renderer.Render(rows)
	if err != nil {
		return nil, fmt.Errorf("export %s: render: %w", format, err)
	}

	s.audit.Record(ports.AuditEvent{
		Actor:     actor,
		Action:    "export",
		Detail:    map[string]any{"formato": format, "filas": len(rows)},
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("format", format).Int("rows", len(rows)).Msg("export rendered")

	return &ports.ExportArtifact{Path: path, Filename: filename, Rows: len(rows)}, nil
}
