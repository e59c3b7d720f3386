package domain

import "time"

// AuditEventType is the outbox event type of portal actions.
const AuditEventType = "portal.action"

// AuditEvent records one view action and how it ended.
type AuditEvent struct {
	ID             string       `json:"id"`
	SessionID      string       `json:"session_id"`
	Action         string       `json:"action"`
	Outcome        ResultStatus `json:"outcome"`
	UpstreamStatus int          `json:"upstream_status,omitempty"`
	OccurredAt     time.Time    `json:"occurred_at"`
}
