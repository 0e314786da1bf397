package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// UploadDedup abstracts the idempotency store (Redis). Check reports whether
// a file with this checksum was already imported, and if so how many rows the
// original run committed.
type UploadDedup interface {
	Check(ctx context.Context, checksum string) (seen bool, imported int, err error)
	Mark(ctx context.Context, checksum string, imported int) error
}

// ImportService validates uploaded result rows and persists them with
// all-or-nothing semantics: a batch with any invalid row, or one that hits a
// store error, commits nothing and reports every rejected row.
type ImportService struct {
	results ports.ResultRepository
	dedup   UploadDedup
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

func NewImportService(
	results ports.ResultRepository,
	dedup UploadDedup,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{results: results, dedup: dedup, audit: audit, log: log}
}

// ImportResults runs the bulk import. A re-uploaded file (same checksum
// inside the dedup window) replays the recorded summary without side effects.
func (s *ImportService) ImportResults(ctx context.Context, in ports.ImportInput) (*ports.ImportReport, error) {
	if len(in.Rows) == 0 {
		return nil, domain.ErrEmptyImport
	}

	if in.Checksum != "" {
		seen, imported, err := s.dedup.Check(ctx, in.Checksum)
		if err != nil {
			s.log.Warn().Err(err).Str("file", in.Filename).Msg("dedup check failed, processing anyway")
		} else if seen {
			s.log.Info().Str("file", in.Filename).Str("checksum", in.Checksum).Msg("idempotent replay")
			return &ports.ImportReport{Imported: imported, AlreadyProcessed: true}, nil
		}
	}

	rows := make([]domain.Result, 0, len(in.Rows))
	var rejected []ports.RowRejection
	for _, raw := range in.Rows {
		row, reason := validateRow(raw)
		if reason != "" {
			rejected = append(rejected, ports.RowRejection{Line: raw.Line, Reason: reason})
			continue
		}
		rows = append(rows, row)
	}

	if len(rejected) > 0 {
		s.log.Info().
			Str("file", in.Filename).
			Int("rejected", len(rejected)).
			Msg("import aborted, batch contains invalid rows")
		return &ports.ImportReport{Imported: 0, Rejected: rejected}, nil
	}

	if err := s.results.InsertBatch(ctx, rows); err != nil {
		s.log.Error().Err(err).Str("file", in.Filename).Msg("batch insert failed")
		return nil, fmt.Errorf("import results: %w", err)
	}

	if in.Checksum != "" {
		if err := s.dedup.Mark(ctx, in.Checksum, len(rows)); err != nil {
			s.log.Warn().Err(err).Str("file", in.Filename).Msg("failed to set dedup key")
		}
	}

	s.audit.Record(ports.AuditEvent{
		Actor:  in.Actor,
		Action: "import",
		Detail: map[string]any{
			"archivo":  in.Filename,
			"checksum": in.Checksum,
			"filas":    len(rows),
		},
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("file", in.Filename).Int("rows", len(rows)).Msg("import committed")

	return &ports.ImportReport{Imported: len(rows)}, nil
}

// resultRow carries the trimmed cell values through struct validation. The
// json tags double as the sheet column names reported in rejection reasons.
type resultRow struct {
	NombrePaciente string `json:"nombre_paciente" validate:"required"`
	NombrePrueba   string `json:"nombre_prueba"   validate:"required"`
	Resultados     string `json:"resultados"      validate:"required"`
	Costo          string `json:"costo"           validate:"required,numeric"`
}

// rowValidator reports field errors under the sheet column names.
var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("json")
	})
	return v
}

// validateRow checks required fields and the numeric cost. It returns the
// typed row and an empty reason on success.
func validateRow(raw ports.ResultRowInput) (domain.Result, string) {
	row := resultRow{
		NombrePaciente: strings.TrimSpace(raw.NombrePaciente),
		NombrePrueba:   strings.TrimSpace(raw.NombrePrueba),
		Resultados:     strings.TrimSpace(raw.Resultados),
		Costo:          strings.TrimSpace(raw.Costo),
	}

	if err := rowValidator.Struct(&row); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.Result{}, rowReason(ve[0], raw)
		}
		return domain.Result{}, err.Error()
	}

	costo, err := strconv.ParseFloat(row.Costo, 64)
	if err != nil {
		return domain.Result{}, fmt.Sprintf("costo no es numerico: %q", raw.Costo)
	}
	if costo < 0 {
		return domain.Result{}, "costo no puede ser negativo"
	}

	return domain.Result{
		NombrePaciente: row.NombrePaciente,
		NombrePrueba:   row.NombrePrueba,
		Resultados:     row.Resultados,
		Costo:          costo,
	}, ""
}

// rowReason renders one field error as a Spanish rejection reason.
func rowReason(fe validator.FieldError, raw ports.ResultRowInput) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es obligatorio"
	case "numeric":
		return fmt.Sprintf("%s no es numerico: %q", fe.Field(), raw.Costo)
	default:
		return fmt.Sprintf("%s no es valido (%s)", fe.Field(), fe.Tag())
	}
}
