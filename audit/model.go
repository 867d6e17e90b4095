// audit/model.go
package audit

import "time"

// AuditLog is one authorization decision taken by the HTTP gate.
type AuditLog struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CallerRole    string    `json:"caller_role,omitempty"`
	Operation     string    `json:"operation"`
	RequiredRole  string    `json:"required_role"`
	Decision      string    `json:"decision"`
	AccessGranted bool      `json:"access_granted"`
}

// Query filters audit logs. Zero From/To leave that side of the range open;
// Size defaults to 100.
type Query struct {
	From      time.Time
	To        time.Time
	UserID    string
	Operation string
	Size      int
}
