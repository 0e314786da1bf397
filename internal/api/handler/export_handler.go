package handler

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/api/metrics"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// ExportHandler streams rendered report artifacts. The temporary file is
// removed after the response on every path, including failed downloads.
type ExportHandler struct {
	service ports.ExportService
}

func NewExportHandler(service ports.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// DownloadXLSX handles GET /download.
//
// @Summary      Download all results as a spreadsheet
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /download [get]
func (h *ExportHandler) DownloadXLSX(c echo.Context) error {
	return h.download(c, "xlsx", h.service.BuildXLSX)
}

// DownloadPDF handles GET /downloadpdf.
//
// @Summary      Download distinct results as a PDF report
// @Tags         export
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /downloadpdf [get]
func (h *ExportHandler) DownloadPDF(c echo.Context) error {
	return h.download(c, "pdf", h.service.BuildPDF)
}

func (h *ExportHandler) download(
	c echo.Context,
	format string,
	build func(ctx context.Context, actor string) (*ports.ExportArtifact, error),
) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	start := time.Now()
	artifact, err := build(c.Request().Context(), username)
	if err != nil {
		return err
	}
	defer os.Remove(artifact.Path)

	metrics.ExportsTotal.WithLabelValues(format).Inc()
	metrics.ExportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	return c.Attachment(artifact.Path, artifact.Filename)
}
