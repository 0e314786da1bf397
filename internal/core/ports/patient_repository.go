package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// PatientInput carries the mutable fields of a patient record.
type PatientInput struct {
	Nombre        string
	Edad          int
	Correo        string
	TipoPrueba    string
	FechaRegistro string
}

// PatientRepository defines persistence operations for patient records.
// All queries are parameterized; schema changes go through the compiled
// column registry only.
type PatientRepository interface {
	Insert(ctx context.Context, in PatientInput) (int64, error)
	Update(ctx context.Context, id int64, in PatientInput) error
	Delete(ctx context.Context, id int64) error
	// List returns all patients; when orderByName is true rows come back
	// sorted name-ascending.
	List(ctx context.Context, orderByName bool) ([]domain.Patient, error)
	Count(ctx context.Context) (int64, error)
	// AverageAge returns nil when the table is empty.
	AverageAge(ctx context.Context) (*float64, error)
	// SearchByName performs a case-insensitive substring match on nombre.
	SearchByName(ctx context.Context, fragment string) ([]domain.Patient, error)
	// FindByExactName backs the self-service view: exact string equality on
	// nombre, matched against the session username.
	FindByExactName(ctx context.Context, nombre string) ([]domain.Patient, error)
	// ListByTest returns patients with the given test type and edad >= minAge.
	ListByTest(ctx context.Context, tipoPrueba string, minAge int) ([]domain.Patient, error)
	AddColumn(ctx context.Context, name string) error
	DropColumn(ctx context.Context, name string) error
}
