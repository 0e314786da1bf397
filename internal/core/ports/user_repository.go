package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// UserRepository defines persistence for account records.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// AccessCodeRepository resolves registration access codes to roles.
// Resolution is a read-only lookup; codes are never marked consumed.
type AccessCodeRepository interface {
	ResolveRole(ctx context.Context, code string) (string, error)
}
