package model

import "time"

// User represents an employee allowed to order equipment.
// IsStaff grants access to the fulfillment pipeline, IsAdmin to
// destructive operations (delete, reassign).
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Team         string
	IsStaff      bool
	IsAdmin      bool
	CreatedAt    time.Time
}
