package models

import "time"

// Todo represents a todo item. Name is unique across all rows.
type Todo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Change feed actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TodoEvent is the message payload published to Kafka after a successful write.
type TodoEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"` // created, updated, deleted
	Todo       Todo      `json:"todo"`
	OccurredAt time.Time `json:"occurred_at"`
}
