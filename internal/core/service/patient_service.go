package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// bloodTestType and bloodTestMinAge define the fixed reporting view over the
// patient table: blood-test patients of legal adult age.
const (
	bloodTestType   = "sangre"
	bloodTestMinAge = 20
)

// PatientService wraps the record repository with logging, auditing, and the
// schema-registry check for column changes.
type PatientService struct {
	patients ports.PatientRepository
	users    ports.UserRepository
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewPatientService(
	patients ports.PatientRepository,
	users ports.UserRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *PatientService {
	return &PatientService{patients: patients, users: users, audit: audit, log: log}
}

func (s *PatientService) Create(ctx context.Context, in ports.PatientInput) (int64, error) {
	id, err := s.patients.Insert(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert patient")
		return 0, err
	}
	s.log.Info().Int64("patient_id", id).Str("nombre", in.Nombre).Msg("patient created")
	return id, nil
}

func (s *PatientService) Update(ctx context.Context, id int64, in ports.PatientInput) error {
	return s.patients.Update(ctx, id, in)
}

func (s *PatientService) Delete(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

func (s *PatientService) List(ctx context.Context, orderByName bool) ([]domain.Patient, error) {
	return s.patients.List(ctx, orderByName)
}

func (s *PatientService) Count(ctx context.Context) (int64, error) {
	return s.patients.Count(ctx)
}

func (s *PatientService) AverageAge(ctx context.Context) (*float64, error) {
	return s.patients.AverageAge(ctx)
}

func (s *PatientService) Search(ctx context.Context, fragment string) ([]domain.Patient, error) {
	return s.patients.SearchByName(ctx, fragment)
}

func (s *PatientService) MyRecords(ctx context.Context, username string) ([]domain.Patient, error) {
	return s.patients.FindByExactName(ctx, username)
}

func (s *PatientService) BloodTestAdults(ctx context.Context) ([]domain.Patient, error) {
	return s.patients.ListByTest(ctx, bloodTestType, bloodTestMinAge)
}

func (s *PatientService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// AddColumn adds an optional column to the patient table. The column must be
// in the compiled registry; anything else is rejected before touching the store.
func (s *PatientService) AddColumn(ctx context.Context, actor, column string) error {
	if _, err := domain.PatientColumnType(column); err != nil {
		return err
	}
	if err := s.patients.AddColumn(ctx, column); err != nil {
		return err
	}
	s.recordSchemaChange(actor, "add_column", column)
	return nil
}

// DropColumn removes an optional registry column from the patient table.
func (s *PatientService) DropColumn(ctx context.Context, actor, column string) error {
	if !domain.PatientColumnAllowed(column) {
		return domain.ErrColumnNotAllowed
	}
	if err := s.patients.DropColumn(ctx, column); err != nil {
		return err
	}
	s.recordSchemaChange(actor, "drop_column", column)
	return nil
}

func (s *PatientService) recordSchemaChange(actor, action, column string) {
	s.audit.Record(ports.AuditEvent{
		Actor:     actor,
		Action:    action,
		Detail:    map[string]any{"columna": column},
		Timestamp: time.Now().UTC(),
	})
	s.log.Warn().Str("actor", actor).Str("action", action).Str("column", column).Msg("patient schema changed")
}
