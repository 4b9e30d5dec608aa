package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/dailyjournal/internal/client/views"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() views.State
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Stats(ctx context.Context) error
	OpenJournal(ctx context.Context) error
	Back(ctx context.Context) error
	SetField(field string) error
	Rate(field, value string) error
	SetDate(ctx context.Context, value string) error
	Show() error
	Save(ctx context.Context) error
	Clear() error
	Doodle(ctx context.Context, path string) error
}

var helpText = map[views.State]string{
	views.Unauthenticated: "Available commands: register, login, help, exit",
	views.Dashboard:       "Available commands: stats, journal, logout, help, exit",
	views.JournalForm: "Available commands: set <field>, rate <field> <0-5>, date <yyyy-mm-dd>, " +
		"show, save, clear, doodle [path], back, help, exit",
}

// runREPL starts a simple read-eval-print loop for the journal client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The set of accepted commands depends on the
// current view:
//
//	Signed out:
//	  - register       create an account and sign in
//	  - login          authenticate
//
//	Dashboard:
//	  - stats          refresh and print the statistics
//	  - journal        open today's journal
//	  - logout         sign out
//
//	Journal form:
//	  - set <field>         enter a text field
//	  - rate <field> <0-5>  set a star rating
//	  - date <yyyy-mm-dd>   choose the day the page is for, loading it if stored
//	  - show | save | clear view, store or reset the page
//	  - doodle [path]       upload an image, or print the link to it
//	  - back                return to the dashboard
//
// help and exit | quit work everywhere. The loop exits on EOF, on exit, or
// when ctx is cancelled. Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("dj %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText[a.state()])
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		handled, cerr := dispatch(ctx, a, cmd, args)
		if !handled {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if cerr != nil {
			printlnFn("Error:", cerr)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) (bool, error) {
	switch a.state() {
	case views.Unauthenticated:
		switch cmd {
		case "register":
			return true, a.Register(ctx)
		case "login":
			return true, a.Login(ctx)
		}

	case views.Dashboard:
		switch cmd {
		case "stats":
			return true, a.Stats(ctx)
		case "journal":
			return true, a.OpenJournal(ctx)
		case "logout":
			return true, a.Logout(ctx)
		}

	case views.JournalForm:
		switch cmd {
		case "set":
			if len(args) != 1 {
				return true, errors.New("usage: set <field>")
			}
			return true, a.SetField(args[0])
		case "rate":
			if len(args) != 2 {
				return true, errors.New("usage: rate <field> <0-5>")
			}
			return true, a.Rate(args[0], args[1])
		case "date":
			if len(args) != 1 {
				return true, errors.New("usage: date <yyyy-mm-dd>")
			}
			return true, a.SetDate(ctx, args[0])
		case "show":
			return true, a.Show()
		case "save":
			return true, a.Save(ctx)
		case "clear":
			return true, a.Clear()
		case "doodle":
			path := ""
			if len(args) > 0 {
				path = strings.Join(args, " ")
			}
			return true, a.Doodle(ctx, path)
		case "back":
			return true, a.Back(ctx)
		}
	}
	return false, nil
}
