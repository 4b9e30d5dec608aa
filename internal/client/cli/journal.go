package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/client/journalform"
	"github.com/dmitrijs2005/dailyjournal/internal/client/notify"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
)

var errNoForm = errors.New("journal form is not open")

// readFile is a test seam for loading doodle images.
var readFile = os.ReadFile

var multilineFields = map[journal.Field]bool{
	journal.Highlights: true,
	journal.Thoughts:   true,
	journal.Reflection: true,
}

var fieldLabels = map[journal.Field]string{
	journal.Affirmation:      "Today's affirmation",
	journal.PriorityWork:     "Priority: work",
	journal.PriorityFamily:   "Priority: family",
	journal.PrioritySelfCare: "Priority: self-care",
	journal.Gratitude:        "I am grateful for",
	journal.Highlights:       "Highlights of the day",
	journal.Thoughts:         "Thoughts",
	journal.Notes:            "Notes",
	journal.Reflection:       "Reflection",
	journal.RatingWork:       "Work",
	journal.RatingFamily:     "Family",
	journal.RatingSelfCare:   "Self-care",
}

// Stats loads and prints the dashboard for today.
func (a *App) Stats(ctx context.Context) error {
	d, err := a.api.Dashboard(ctx, a.today())
	if err != nil {
		if a.expireOnAuthError(err) {
			return nil
		}
		return fmt.Errorf("loading dashboard: %w", err)
	}
	printDashboard(a, d)
	return nil
}

func printDashboard(a *App, d *client.Dashboard) {
	today := "not yet"
	action := "journal  start today's journal"
	if d.TodayCompleted {
		today = "done"
		action = "journal  continue today's journal"
	}
	fmt.Fprintf(a.out, "Total entries: %d\n", d.TotalEntries)
	fmt.Fprintf(a.out, "Current streak: %d day(s)\n", d.Streak)
	fmt.Fprintf(a.out, "Today: %s\n", today)
	fmt.Fprintf(a.out, "Next: %s\n", action)
}

// OpenJournal opens the form for today, pre-filled when today's page exists.
func (a *App) OpenJournal(ctx context.Context) error {
	today := a.today()
	d, err := a.api.Dashboard(ctx, today)
	if err != nil {
		if a.expireOnAuthError(err) {
			return nil
		}
		return fmt.Errorf("loading dashboard: %w", err)
	}

	f := journalform.New(today)
	if d.TodayEntry != nil {
		f.Load(d.TodayEntry.Date, d.TodayEntry.Content)
	}

	if err := a.views.OpenJournal(); err != nil {
		return err
	}
	a.form = f

	if d.TodayEntry != nil {
		fmt.Fprintf(a.out, "Continuing journal for %s\n", common.FormatDate(f.Date()))
	} else {
		fmt.Fprintf(a.out, "New journal for %s\n", common.FormatDate(f.Date()))
	}
	return nil
}

// Back returns to the dashboard. Unsaved input is dropped.
func (a *App) Back(ctx context.Context) error {
	if err := a.views.Back(); err != nil {
		return err
	}
	a.form = nil
	return a.Stats(ctx)
}

// SetField prompts for the value of a text field.
func (a *App) SetField(field string) error {
	if a.form == nil {
		return errNoForm
	}
	f := journal.Field(field)
	limit, ok := journal.Limit(f)
	if !ok {
		return fmt.Errorf("%w: %s", journalform.ErrUnknownField, field)
	}

	prompt := fmt.Sprintf("%s (max %d characters)", fieldLabels[f], limit)
	read := getLine
	if multilineFields[f] {
		read = getMultiline
	}
	value, err := read(a.reader, prompt, a.out)
	if err != nil {
		return err
	}

	return a.form.Update(field, value)
}

func (a *App) Rate(field, value string) error {
	if a.form == nil {
		return errNoForm
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", journalform.ErrRatingOutOfRange, value)
	}
	return a.form.SetRating(field, v)
}

// SetDate moves the form to another day. A page already stored for that day
// replaces the form content; otherwise the current input is kept.
func (a *App) SetDate(ctx context.Context, value string) error {
	if a.form == nil {
		return errNoForm
	}
	d, err := common.ParseDate(value)
	if err != nil {
		return err
	}

	e, err := a.api.GetEntry(ctx, d)
	switch {
	case errors.Is(err, client.ErrNotFound):
		a.form.SetDate(d)
		fmt.Fprintf(a.out, "New journal for %s\n", common.FormatDate(d))
	case err != nil:
		if a.expireOnAuthError(err) {
			return nil
		}
		return fmt.Errorf("loading entry: %w", err)
	default:
		a.form.Load(e.Date, e.Content)
		fmt.Fprintf(a.out, "Continuing journal for %s\n", common.FormatDate(e.Date))
	}
	return nil
}

func (a *App) Show() error {
	if a.form == nil {
		return errNoForm
	}
	c := a.form.Entry()

	fmt.Fprintf(a.out, "Date: %s\n", common.FormatDate(a.form.Date()))
	for _, f := range journal.TextFields {
		v, _ := c.Text(f)
		limit, _ := journal.Limit(f)
		fmt.Fprintf(a.out, "%-22s [%s] (%d/%d)\n", fieldLabels[f], f, len([]rune(v)), limit)
		if v != "" {
			fmt.Fprintf(a.out, "  %s\n", strings.ReplaceAll(v, "\n", "\n  "))
		}
	}
	for _, f := range journal.RatingFields {
		v, _ := c.Rating(f)
		fmt.Fprintf(a.out, "%-22s [%s] %s\n", fieldLabels[f], f, stars(v))
	}
	return nil
}

func stars(v int) string {
	return strings.Repeat("*", v) + strings.Repeat(".", journal.MaxRating-v)
}

// Save stores the page. The outcome is reported as a notification and the
// form keeps its content either way.
func (a *App) Save(ctx context.Context) error {
	if a.form == nil {
		return errNoForm
	}
	if err := a.form.Save(ctx, a.api); err != nil {
		if a.expireOnAuthError(err) {
			return nil
		}
		a.notifier.Error("Could not save journal entry", err)
		return nil
	}
	a.notifier.Success(notify.MsgSaved)
	return nil
}

func (a *App) Clear() error {
	if a.form == nil {
		return errNoForm
	}
	a.form.Clear()
	a.notifier.Success(notify.MsgCleared)
	return nil
}

// Doodle uploads an image for the selected date. The page must be saved
// first. Without a path it prints a download link for the current doodle.
func (a *App) Doodle(ctx context.Context, path string) error {
	if a.form == nil {
		return errNoForm
	}
	if path == "" {
		url, err := a.api.DoodleURL(ctx, a.form.Date())
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("no doodle for %s", common.FormatDate(a.form.Date()))
		}
		if err != nil {
			if a.expireOnAuthError(err) {
				return nil
			}
			return err
		}
		fmt.Fprintln(a.out, url)
		return nil
	}

	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("reading doodle: %w", err)
	}

	err = a.api.UploadDoodle(ctx, a.form.Date(), data)
	if errors.Is(err, client.ErrNotFound) {
		return errors.New("save the journal entry before attaching a doodle")
	}
	if err != nil {
		if a.expireOnAuthError(err) {
			return nil
		}
		return err
	}

	a.notifier.Success("Doodle uploaded")
	return nil
}
