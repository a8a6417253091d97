package model

import "time"

// Item is the domain model for a todo entry.
// ID and CreatedAt are assigned by the row-store and never change afterwards.
type Item struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	IsComplete bool      `json:"is_complete" db:"is_complete"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewItem is the row sent on insert; the store fills in the rest.
type NewItem struct {
	Title      string `json:"title"`
	IsComplete bool   `json:"is_complete"`
}
