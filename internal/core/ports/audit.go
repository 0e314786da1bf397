package ports

import (
	"context"
	"time"
)

// AuditEvent is one append-only entry in the audit trail.
type AuditEvent struct {
	Actor     string
	Action    string
	Detail    map[string]any
	Timestamp time.Time
}

// AuditRecorder accepts audit events for asynchronous persistence. Recording
// never fails the calling request; delivery is best-effort.
type AuditRecorder interface {
	Record(event AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuditEvent) error
}
