package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

// Repository is the entry store: one journal entry per user and calendar date.
type Repository interface {
	// Count returns the number of entries the user has written.
	Count(ctx context.Context, userID string) (int64, error)

	// GetByUserAndDate returns the entry for the date or common.ErrorNotFound.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*models.Entry, error)

	// ListRecentDates returns up to limit entry dates, newest first.
	ListRecentDates(ctx context.Context, userID string, limit int) ([]time.Time, error)

	// Upsert creates the entry for (UserID, Date) or overwrites its content.
	// The doodle key of an existing entry is preserved.
	Upsert(ctx context.Context, entry *models.Entry) (*models.Entry, error)

	// SetDoodleKey attaches an object-storage key to an existing entry.
	SetDoodleKey(ctx context.Context, userID string, date time.Time, key string) error
}
