package models

import "time"

// Diagnostic event types.
const (
	EventConnected        = "CONNECTED"
	EventConnectError     = "CONNECT_ERROR"
	EventDisconnected     = "DISCONNECTED"
	EventMalformedPayload = "MALFORMED_PAYLOAD"
	EventBufferOverflow   = "BUFFER_OVERFLOW"
)

// DiagnosticEvent is a single entry of the dashboard's diagnostic log.
type DiagnosticEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CONNECTED | CONNECT_ERROR | DISCONNECTED | MALFORMED_PAYLOAD | BUFFER_OVERFLOW
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
