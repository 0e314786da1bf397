package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// AccessCodeRepository resolves registration codes against the
// codigos_acceso table. Lookups are read-only; codes stay reusable.
type AccessCodeRepository struct {
	db *sqlx.DB
}

func NewAccessCodeRepository(db *sqlx.DB) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

func (r *AccessCodeRepository) ResolveRole(ctx context.Context, code string) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role,
		`SELECT tipo_usuario FROM codigos_acceso WHERE codigo = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrInvalidAccessCode
		}
		return "", fmt.Errorf("resolve access code: %w", err)
	}
	return role, nil
}
