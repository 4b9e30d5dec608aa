package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/journal"
)

// Account identifies the signed-in user.
type Account struct {
	ID    string
	Email string
}

// Entry is a journal page as seen by the client.
type Entry struct {
	Date      time.Time
	Content   journal.Content
	HasDoodle bool
}

// Dashboard mirrors the server's summary for the requested day.
// TodayEntry is nil when nothing has been written yet.
type Dashboard struct {
	TotalEntries   int64
	Streak         int
	TodayCompleted bool
	TodayEntry     *Entry
}

type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (*Account, error)
	Login(ctx context.Context, email, password string) (*Account, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Dashboard(ctx context.Context, today time.Time) (*Dashboard, error)
	GetEntry(ctx context.Context, date time.Time) (*Entry, error)
	SaveEntry(ctx context.Context, date time.Time, content journal.Content) error
	UploadDoodle(ctx context.Context, date time.Time, image []byte) error
	DoodleURL(ctx context.Context, date time.Time) (string, error)
}
