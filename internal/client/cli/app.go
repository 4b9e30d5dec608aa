package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/client/config"
	"github.com/dmitrijs2005/dailyjournal/internal/client/journalform"
	"github.com/dmitrijs2005/dailyjournal/internal/client/notify"
	"github.com/dmitrijs2005/dailyjournal/internal/client/session"
	"github.com/dmitrijs2005/dailyjournal/internal/client/views"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const onlineCheckInterval = 15 * time.Second

type App struct {
	api      client.Client
	session  *session.Store
	views    *views.Machine
	form     *journalform.Form
	notifier *notify.Notifier
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	apiClient, err := client.NewJournalClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return newApp(apiClient, os.Stdin, os.Stdout, l), nil
}

func newApp(api client.Client, in io.Reader, out io.Writer, l logging.Logger) *App {
	return &App{
		api:      api,
		session:  session.NewStore(api),
		views:    views.NewMachine(),
		notifier: notify.New(out),
		logger:   l.With("module", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Warn(ctx, "connection mode changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) checkOnline(ctx context.Context) {
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// Run shows the first screen and serves commands until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			a.logger.Error(ctx, "closing client", "error", err)
		}
	}()

	a.checkOnline(ctx)

	stop := a.views.Follow(a.session)
	defer stop()
	if u, ok := a.session.Session(); ok {
		_ = a.views.Resolve(&u)
	} else {
		_ = a.views.Resolve(nil)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, onlineCheckInterval)

	printlnFn("Daily Journal (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) state() views.State {
	return a.views.State()
}

// expireOnAuthError drops a session the server rejected and tells the user.
func (a *App) expireOnAuthError(err error) bool {
	if !a.session.Expire(err) {
		return false
	}
	a.form = nil
	a.notifier.Error(notify.MsgSessionExpired, nil)
	return true
}

// today is the user's local calendar day.
func (a *App) today() time.Time {
	return a.now()
}
