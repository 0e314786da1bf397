package ports

import "github.com/vamilabs/labrecords-api/internal/core/domain"

// SessionStore keeps server-side session state keyed by opaque tokens.
//
// Resolve returns nil for unknown or expired tokens: absence is the
// "unauthenticated" state, not an error. Destroy is idempotent and always
// succeeds, even for tokens that were never issued.
type SessionStore interface {
	Create(user *domain.User) (string, error)
	Resolve(token string) *domain.Session
	Destroy(token string)
	Active() int
}
