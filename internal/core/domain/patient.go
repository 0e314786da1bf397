package domain

import "errors"

// Patient is a laboratory patient record. A patient row may or may not
// correspond to a User account: self-service lookups match the session
// username against the nombre field by exact string equality. That join is a
// deliberate (if fragile) contract inherited from the schema, not a foreign key.
type Patient struct {
	ID            int64  `json:"id" db:"id"`
	Nombre        string `json:"nombre" db:"nombre"`
	Edad          int    `json:"edad" db:"edad"`
	Correo        string `json:"correo" db:"correo"`
	TipoPrueba    string `json:"tipo_prueba" db:"tipo_prueba"`
	FechaRegistro string `json:"fecha_registro" db:"fecha_registro"`
}

// Result is a single lab test result. NombrePaciente is a denormalized name
// string, linked to Patient the same way self-service lookups are.
type Result struct {
	ID             int64   `json:"id" db:"id"`
	NombrePaciente string  `json:"nombre_paciente" db:"nombre_paciente"`
	NombrePrueba   string  `json:"nombre_prueba" db:"nombre_prueba"`
	Resultados     string  `json:"resultados" db:"resultados"`
	Costo          float64 `json:"costo" db:"costo"`
}

var ErrPatientNotFound = errors.New("patient not found")
var ErrForbidden = errors.New("access forbidden")
var ErrEmptyImport = errors.New("import file contains no rows")
