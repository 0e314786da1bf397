package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// ExportArtifact points at a rendered report on disk. The caller owns the
// file and must remove it once the response has been sent, on success and
// failure paths alike.
type ExportArtifact struct {
	Path     string
	Filename string
	Rows     int
}

// ResultRenderer turns a result set into a document in a temporary location.
// Implementations clean up after themselves when rendering fails.
type ResultRenderer interface {
	Render(results []domain.Result) (path string, err error)
}

// ExportService builds downloadable report artifacts from the result table.
type ExportService interface {
	BuildXLSX(ctx context.Context, actor string) (*ExportArtifact, error)
	BuildPDF(ctx context.Context, actor string) (*ExportArtifact, error)
}
