package models

import (
	"time"
)

// Habit represents a trackable habit owned by a single user. Default habits
// seeded for a new owner have Deletable set to false; user-added habits are
// always deletable.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Deletable bool      `json:"is_deletable"`
	CreatedAt time.Time `json:"created_at"`
}
