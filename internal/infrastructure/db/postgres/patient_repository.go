package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

const patientColumns = `id, nombre, edad, correo, tipo_prueba, fecha_registro`

// PatientRepository implements ports.PatientRepository over the pacientes
// table. Every value travels through a bind parameter; the two ALTER TABLE
// helpers only ever see identifiers taken from the compiled column registry.
type PatientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Insert(ctx context.Context, in ports.PatientInput) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO pacientes (nombre, edad, correo, tipo_prueba, fecha_registro)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.Nombre, in.Edad, in.Correo, in.TipoPrueba, in.FechaRegistro).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert patient: %w", err)
	}
	return id, nil
}

func (r *PatientRepository) Update(ctx context.Context, id int64, in ports.PatientInput) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pacientes SET nombre = $1, edad = $2, correo = $3, tipo_prueba = $4, fecha_registro = $5
		 WHERE id = $6`,
		in.Nombre, in.Edad, in.Correo, in.TipoPrueba, in.FechaRegistro, id)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return requireRow(res)
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return requireRow(res)
}

func (r *PatientRepository) List(ctx context.Context, orderByName bool) ([]domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM pacientes`
	if orderByName {
		query += ` ORDER BY nombre ASC`
	}
	patients := []domain.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pacientes`); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

// AverageAge returns nil when there are no rows; AVG over an empty table is
// NULL, never a division failure.
func (r *PatientRepository) AverageAge(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg, `SELECT AVG(edad) FROM pacientes`); err != nil {
		return nil, fmt.Errorf("average age: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// SearchByName matches nombre case-insensitively (ILIKE) on the fragment.
func (r *PatientRepository) SearchByName(ctx context.Context, fragment string) ([]domain.Patient, error) {
	patients := []domain.Patient{}
	err := r.db.SelectContext(ctx, &patients,
		`SELECT `+patientColumns+` FROM pacientes WHERE nombre ILIKE '%' || $1 || '%'`,
		fragment)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) FindByExactName(ctx context.Context, nombre string) ([]domain.Patient, error) {
	patients := []domain.Patient{}
	err := r.db.SelectContext(ctx, &patients,
		`SELECT `+patientColumns+` FROM pacientes WHERE nombre = $1`, nombre)
	if err != nil {
		return nil, fmt.Errorf("find patients by name: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) ListByTest(ctx context.Context, tipoPrueba string, minAge int) ([]domain.Patient, error) {
	patients := []domain.Patient{}
	err := r.db.SelectContext(ctx, &patients,
		`SELECT `+patientColumns+` FROM pacientes WHERE tipo_prueba = $1 AND edad >= $2`,
		tipoPrueba, minAge)
	if err != nil {
		return nil, fmt.Errorf("list patients by test: %w", err)
	}
	return patients, nil
}

// AddColumn alters the pacientes table with an identifier and type taken from
// the registry. The registry lookup is the only path to this method.
func (r *PatientRepository) AddColumn(ctx context.Context, name string) error {
	typ, err := domain.PatientColumnType(name)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE pacientes ADD COLUMN IF NOT EXISTS %s %s`, name, typ))
	if err != nil {
		return fmt.Errorf("add column: %w", err)
	}
	return nil
}

func (r *PatientRepository) DropColumn(ctx context.Context, name string) error {
	if !domain.PatientColumnAllowed(name) {
		return domain.ErrColumnNotAllowed
	}
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE pacientes DROP COLUMN IF EXISTS %s`, name))
	if err != nil {
		return fmt.Errorf("drop column: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
