// Package views decides which screen the client shows. The machine starts in
// Loading, resolves to Unauthenticated or Dashboard once the session is known,
// and moves between Dashboard and JournalForm while signed in.
package views

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyjournal/internal/client/session"
)

type State int

const (
	Loading State = iota
	Unauthenticated
	Dashboard
	JournalForm
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Dashboard:
		return "dashboard"
	case JournalForm:
		return "journal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid view transition")

// Machine is driven from a single goroutine.
type Machine struct {
	state State
	user  *session.User
}

func NewMachine() *Machine {
	return &Machine{state: Loading}
}

func (m *Machine) State() State { return m.state }

// User returns the user the authenticated views are showing.
func (m *Machine) User() (session.User, bool) {
	if m.user == nil {
		return session.User{}, false
	}
	return *m.user, true
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, m.state)
}

// Resolve leaves Loading once the session is known.
func (m *Machine) Resolve(u *session.User) error {
	if m.state != Loading {
		return m.invalid("resolve")
	}
	if u == nil {
		m.state = Unauthenticated
		return nil
	}
	cp := *u
	m.user = &cp
	m.state = Dashboard
	return nil
}

func (m *Machine) SignedIn(u session.User) error {
	if m.state != Unauthenticated {
		return m.invalid("sign in")
	}
	m.user = &u
	m.state = Dashboard
	return nil
}

func (m *Machine) OpenJournal() error {
	if m.state != Dashboard {
		return m.invalid("open journal")
	}
	m.state = JournalForm
	return nil
}

func (m *Machine) Back() error {
	if m.state != JournalForm {
		return m.invalid("back")
	}
	m.state = Dashboard
	return nil
}

func (m *Machine) SignedOut() error {
	if m.state != Dashboard && m.state != JournalForm {
		return m.invalid("sign out")
	}
	m.user = nil
	m.state = Unauthenticated
	return nil
}

type sessionSource interface {
	Subscribe(fn session.Listener) func()
}

// Follow applies session changes from src until the returned function is
// called. Changes that do not fit the current state are ignored.
func (m *Machine) Follow(src sessionSource) (stop func()) {
	return src.Subscribe(func(u *session.User) {
		switch {
		case u == nil:
			_ = m.SignedOut()
		case m.state == Loading:
			_ = m.Resolve(u)
		default:
			_ = m.SignedIn(*u)
		}
	})
}
