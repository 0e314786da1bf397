package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

// bcryptCost targets roughly 100ms per hash on current hardware.
const bcryptCost = 12

// HashPassword derives a salted one-way hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// AuthService implements registration and the session lifecycle.
type AuthService struct {
	users    ports.UserRepository
	codes    ports.AccessCodeRepository
	sessions ports.SessionStore
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	codes ports.AccessCodeRepository,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, codes: codes, sessions: sessions, audit: audit, log: log}
}

// Register creates an account. The role is determined solely by the access
// code; a request whose code does not resolve is rejected before any write.
func (s *AuthService) Register(ctx context.Context, username, password, accessCode string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := s.codes.ResolveRole(ctx, accessCode)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ports.AuditEvent{
		Actor:     created.Username,
		Action:    "register",
		Detail:    map[string]any{"tipo_usuario": created.Role},
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("user registered")

	return created, nil
}

// Login verifies credentials and opens a session. The returned token is the
// only reference the client ever sees; the session carries a snapshot of the
// user's role taken now.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(ports.AuditEvent{
		Actor:     user.Username,
		Action:    "login",
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", user.Username).Msg("login ok")

	return token, user, nil
}

// Logout destroys the session behind the token. Idempotent: destroying an
// unknown or already-destroyed token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) {
	sess := s.sessions.Resolve(token)
	s.sessions.Destroy(token)
	if sess != nil {
		s.audit.Record(ports.AuditEvent{
			Actor:     sess.Username,
			Action:    "logout",
			Timestamp: time.Now().UTC(),
		})
	}
}
