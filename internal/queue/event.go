// Package queue defines the activity events this service emits and the
// RabbitMQ publisher that delivers them.
package queue

import "time"

// Activity event types.
const (
	LogCreated = "log.created"
	LogUpdated = "log.updated"
	LogDeleted = "log.deleted"
)

// ActivityEvent is published after a recycling log is written.  It carries
// enough for downstream consumers (leaderboards, notifications) to act
// without querying the primary database.  For deletions only LogID and
// UserID are set.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	LogID      uint64    `json:"log_id"`
	UserID     uint64    `json:"user_id"`
	Actor      string    `json:"actor"`
	PointID    uint64    `json:"point_id,omitempty"`
	MaterialID uint64    `json:"material_id,omitempty"`
	WeightKg   float64   `json:"weight_kg,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
