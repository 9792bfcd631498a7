package model

import "time"

// LostItem is an item reported missing by its owner.
type LostItem struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	DateLost    string    `json:"date_lost"`
	TimeLost    string    `json:"time_lost,omitempty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FoundItem is an item reported by the person who found it.
type FoundItem struct {
	ID          int64     `json:"id"`
	FinderID    int64     `json:"finder_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	DateFound   string    `json:"date_found"`
	TimeFound   string    `json:"time_found,omitempty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item statuses. Lost items use active/completed/deleted, found items use
// active/closed/deleted.
const (
	ItemStatusActive    = "active"
	ItemStatusCompleted = "completed"
	ItemStatusClosed    = "closed"
	ItemStatusDeleted   = "deleted"
)

// DateLayout is the format of item dates (date_lost, date_found, contact_date).
const DateLayout = "2006-01-02"
