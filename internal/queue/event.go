// Package queue defines message payloads exchanged over the message broker.
package queue

// Audit actions published by the handlers.
const (
	ActionUserRegistered = "user.registered"
	ActionBookCreated    = "book.created"
	ActionBookUpdated    = "book.updated"
	ActionBookDeleted    = "book.deleted"
)

// AuditEvent records a state change in the store.  It carries enough
// information for downstream consumers to log or alert without
// querying the primary database.  Book fields are empty for user
// events.
type AuditEvent struct {
	Action     string `json:"action"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	BookID     string `json:"book_id,omitempty"`
	BookTitle  string `json:"book_title,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
