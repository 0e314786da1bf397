package ports

import "context"

// ResultRowInput is one parsed row of an uploaded results sheet. Costo keeps
// the raw cell text so the service can distinguish "missing" from "zero" and
// report non-numeric values precisely.
type ResultRowInput struct {
	Line           int
	NombrePaciente string
	NombrePrueba   string
	Resultados     string
	Costo          string
}

// ImportInput is the DTO passed from the transport layer to ImportService.
type ImportInput struct {
	Filename string
	// Checksum is the hex SHA-256 of the uploaded file, used for idempotent
	// re-upload detection.
	Checksum string
	Actor    string
	Rows     []ResultRowInput
}

// RowRejection explains why a single row was not imported.
type RowRejection struct {
	Line   int    `json:"fila"`
	Reason string `json:"motivo"`
}

// ImportReport summarizes an import run. Under the all-or-nothing policy,
// Imported is zero whenever Rejected is non-empty.
type ImportReport struct {
	Imported         int            `json:"importados"`
	Rejected         []RowRejection `json:"rechazados,omitempty"`
	AlreadyProcessed bool           `json:"ya_procesado,omitempty"`
}

// ImportService converts an uploaded tabular file into persisted results.
type ImportService interface {
	ImportResults(ctx context.Context, in ImportInput) (*ImportReport, error)
}
