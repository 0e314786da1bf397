package domain

import "time"

// Session is the server-side state recovered from an opaque token. UserID,
// Username and Role are a point-in-time snapshot taken at login; they are not
// refreshed if the underlying User row later changes.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"nombre_usuario"`
	Role      string    `json:"tipo_usuario"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// IsLabWorker reports whether the session belongs to lab staff.
func (s *Session) IsLabWorker() bool {
	return s.Role == RoleLabWorker
}
