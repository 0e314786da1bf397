package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// PatientService exposes the record operations reachable from the API layer.
type PatientService interface {
	Create(ctx context.Context, in PatientInput) (int64, error)
	Update(ctx context.Context, id int64, in PatientInput) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, orderByName bool) ([]domain.Patient, error)
	Count(ctx context.Context) (int64, error)
	AverageAge(ctx context.Context) (*float64, error)
	Search(ctx context.Context, fragment string) ([]domain.Patient, error)
	// MyRecords returns the rows whose nombre exactly equals the session
	// username (self-service view).
	MyRecords(ctx context.Context, username string) ([]domain.Patient, error)
	BloodTestAdults(ctx context.Context) ([]domain.Patient, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	AddColumn(ctx context.Context, actor, column string) error
	DropColumn(ctx context.Context, actor, column string) error
}
