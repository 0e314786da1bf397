package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// ResultRepository implements ports.ResultRepository over the resultados table.
type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// InsertBatch writes all rows inside one transaction. A failure on any row
// rolls back the whole batch; rows 1..k are never left committed behind a
// failing row k+1.
func (r *ResultRepository) InsertBatch(ctx context.Context, rows []domain.Result) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resultados (nombre_paciente, nombre_prueba, resultados, costo)
			 VALUES ($1, $2, $3, $4)`,
			row.NombrePaciente, row.NombrePrueba, row.Resultados, row.Costo)
		if err != nil {
			return fmt.Errorf("insert result for %q: %w", row.NombrePaciente, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}

func (r *ResultRepository) List(ctx context.Context, distinct bool) ([]domain.Result, error) {
	query := `SELECT id, nombre_paciente, nombre_prueba, resultados, costo FROM resultados ORDER BY id`
	if distinct {
		query = `SELECT DISTINCT ON (nombre_paciente, nombre_prueba, resultados, costo)
		         id, nombre_paciente, nombre_prueba, resultados, costo
		         FROM resultados ORDER BY nombre_paciente, nombre_prueba, resultados, costo, id`
	}
	results := []domain.Result{}
	if err := r.db.SelectContext(ctx, &results, query); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM resultados`); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
