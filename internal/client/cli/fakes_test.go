package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
)

var testNow = time.Date(2024, 3, 7, 21, 15, 0, 0, time.UTC)

type savedEntry struct {
	date    time.Time
	content journal.Content
}

type fakeAPI struct {
	pingErr error

	registerErr error
	loginErr    error
	logoutErr   error

	dashboard    *client.Dashboard
	dashboardErr error
	dashDates    []time.Time

	entries  map[time.Time]*client.Entry
	entryErr error

	saveErr error
	saved   []savedEntry

	uploadErr  error
	uploaded   []byte
	uploadDate time.Time

	doodleURL    string
	doodleURLErr error

	closed bool
}

func (f *fakeAPI) Close() error { f.closed = true; return nil }
func (f *fakeAPI) Register(ctx context.Context, email, password string) (*client.Account, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &client.Account{ID: "u1", Email: email}, nil
}
func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.Account, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.Account{ID: "u1", Email: email}, nil
}
func (f *fakeAPI) Logout(ctx context.Context) error { return f.logoutErr }
func (f *fakeAPI) Ping(ctx context.Context) error   { return f.pingErr }
func (f *fakeAPI) Dashboard(ctx context.Context, today time.Time) (*client.Dashboard, error) {
	f.dashDates = append(f.dashDates, today)
	if f.dashboardErr != nil {
		return nil, f.dashboardErr
	}
	if f.dashboard == nil {
		return &client.Dashboard{}, nil
	}
	return f.dashboard, nil
}
func (f *fakeAPI) GetEntry(ctx context.Context, date time.Time) (*client.Entry, error) {
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	if e, ok := f.entries[date]; ok {
		return e, nil
	}
	return nil, client.ErrNotFound
}
func (f *fakeAPI) SaveEntry(ctx context.Context, date time.Time, content journal.Content) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, savedEntry{date: date, content: content})
	return nil
}
func (f *fakeAPI) UploadDoodle(ctx context.Context, date time.Time, image []byte) error {
	f.uploadDate, f.uploaded = date, image
	return f.uploadErr
}
func (f *fakeAPI) DoodleURL(ctx context.Context, date time.Time) (string, error) {
	return f.doodleURL, f.doodleURLErr
}

// newTestApp builds an App over api with output captured in the returned
// buffer. input feeds the interactive prompts.
func newTestApp(t *testing.T, api *fakeAPI, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(api, strings.NewReader(strings.Join(input, "\n")+"\n"), &out, logging.Nop{})
	a.now = func() time.Time { return testNow }
	_ = a.views.Resolve(nil)
	stop := a.views.Follow(a.session)
	t.Cleanup(stop)
	return a, &out
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
