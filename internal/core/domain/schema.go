package domain

import "errors"

// patientColumns is the compiled allow-list of optional columns that may be
// added to or dropped from the pacientes table. Schema changes are matched
// against this registry; request input never reaches an identifier position
// of a query.
var patientColumns = map[string]string{
	"telefono":        "VARCHAR(20)",
	"direccion":       "TEXT",
	"observaciones":   "TEXT",
	"grupo_sanguineo": "VARCHAR(3)",
	"seguro_medico":   "VARCHAR(64)",
}

var ErrColumnNotAllowed = errors.New("column not in schema registry")

// PatientColumnType returns the registered SQL type for an optional patient
// column, or ErrColumnNotAllowed when the column is not in the registry.
func PatientColumnType(name string) (string, error) {
	typ, ok := patientColumns[name]
	if !ok {
		return "", ErrColumnNotAllowed
	}
	return typ, nil
}

// PatientColumnAllowed reports whether the column may be altered at all.
func PatientColumnAllowed(name string) bool {
	_, ok := patientColumns[name]
	return ok
}
