// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/journal"
)

// Entry is one user's journal page for one calendar date.
// (UserID, Date) is unique.
type Entry struct {
	ID     string
	UserID string
	// Date is the calendar day at midnight UTC.
	Date time.Time
	journal.Content
	// DoodleKey is the object-storage key of the attached image, empty when none.
	DoodleKey string
	CreatedAt time.Time
	UpdatedAt time.Time
}
