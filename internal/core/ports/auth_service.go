package ports

import (
	"context"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

// AuthService covers registration and the session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password, accessCode string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string)
}
