package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/api/metrics"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// uploadField is the multipart form field carrying the spreadsheet.
const uploadField = "excelFile"

// maxUploadBytes caps upload size; results files are small.
const maxUploadBytes = 16 << 20

// RowParser turns an uploaded file into import rows.
type RowParser func(r io.Reader) ([]ports.ResultRowInput, error)

// ImportHandler handles the bulk results upload.
type ImportHandler struct {
	service ports.ImportService
	parse   RowParser
}

func NewImportHandler(service ports.ImportService, parse RowParser) *ImportHandler {
	return &ImportHandler{service: service, parse: parse}
}

// Upload handles POST /upload: parses the spreadsheet and runs the
// all-or-nothing import. A batch with invalid rows returns 422 with the
// per-row rejection report and commits nothing.
//
// @Summary      Bulk import lab results from a spreadsheet
// @Tags         import
// @Accept       mpfd
// @Produce      json
// @Param        excelFile  formData  file  true  "Results spreadsheet (.xlsx)"
// @Success      200  {object}  ports.ImportReport
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  ports.ImportReport
// @Router       /upload [post]
func (h *ImportHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field "+strconv.Quote(uploadField))
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	sum := sha256.Sum256(data)

	rows, err := h.parse(bytes.NewReader(data))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	report, err := h.service.ImportResults(c.Request().Context(), ports.ImportInput{
		Filename: fileHeader.Filename,
		Checksum: hex.EncodeToString(sum[:]),
		Actor:    username,
		Rows:     rows,
	})
	if err != nil {
		return err
	}

	if report.AlreadyProcessed {
		metrics.UploadsDedupTotal.WithLabelValues("hit").Inc()
		return c.JSON(http.StatusOK, report)
	}
	metrics.UploadsDedupTotal.WithLabelValues("miss").Inc()
	metrics.ImportRowsTotal.WithLabelValues("imported").Add(float64(report.Imported))
	metrics.ImportRowsTotal.WithLabelValues("rejected").Add(float64(len(report.Rejected)))

	if len(report.Rejected) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, report)
	}
	return c.JSON(http.StatusOK, report)
}
