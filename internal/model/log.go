package model

import "time"

// RecyclingLog mirrors the `recycling_logs` table.  UserID is the owner and
// is always taken from the authenticated identity; LoggedAt is assigned by
// the database.
type RecyclingLog struct {
	ID         uint64
	PointID    uint64
	MaterialID uint64
	WeightKg   float64
	LoggedAt   time.Time
	UserID     uint64
}

// LogEntry is a log joined with its material, point and owner names, as
// returned by the read endpoints.
type LogEntry struct {
	ID           uint64    `json:"id"`
	WeightKg     float64   `json:"weight_kg"`
	LoggedAt     time.Time `json:"logged_at"`
	MaterialID   uint64    `json:"material_id"`
	PointID      uint64    `json:"point_id"`
	MaterialName string    `json:"material_name"`
	PointName    string    `json:"point_name"`
	UserID       uint64    `json:"user_id"`
	Username     string    `json:"username"`
}
