// Package journalform holds the state of the journal page being edited:
// the selected date, nine text fields and three star ratings.
package journalform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
)

var (
	ErrUnknownField     = journal.ErrUnknownField
	ErrTooLong          = journal.ErrTooLong
	ErrRatingOutOfRange = journal.ErrRatingOutOfRange
	ErrSaveFailed       = errors.New("save failed")
)

// EntrySaver persists a page for a date.
type EntrySaver interface {
	SaveEntry(ctx context.Context, date time.Time, content journal.Content) error
}

// Form is not safe for concurrent use.
type Form struct {
	date    time.Time
	content journal.Content
}

// New returns an empty form for today.
func New(today time.Time) *Form {
	return &Form{date: common.DateOf(today)}
}

// Update replaces a text field. A value over the limit is rejected and the
// field keeps its previous value.
func (f *Form) Update(field, value string) error {
	return f.content.SetText(journal.Field(field), value)
}

func (f *Form) SetRating(field string, v int) error {
	return f.content.SetRating(journal.Field(field), v)
}

func (f *Form) Get(field string) (string, error) {
	return f.content.Text(journal.Field(field))
}

func (f *Form) Rating(field string) (int, error) {
	return f.content.Rating(journal.Field(field))
}

// Entry returns a copy of the current content.
func (f *Form) Entry() journal.Content {
	return f.content
}

func (f *Form) SetDate(date time.Time) {
	f.date = common.DateOf(date)
}

func (f *Form) Date() time.Time {
	return f.date
}

// Load fills the form from a saved page.
func (f *Form) Load(date time.Time, content journal.Content) {
	f.date = common.DateOf(date)
	f.content = content
}

// Clear resets every field and rating. The date is kept.
func (f *Form) Clear() {
	f.content = journal.Content{}
}

// Save hands the current page to saver. The form keeps its content either
// way.
func (f *Form) Save(ctx context.Context, saver EntrySaver) error {
	if err := saver.SaveEntry(ctx, f.date, f.content); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}
