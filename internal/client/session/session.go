// Package session keeps track of who is signed in on the client and lets
// other parts of the client react when that changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
)

var ErrInvalidUser = errors.New("invalid user")

// User is the signed-in account. Construct it with NewUser.
type User struct {
	ID    string
	Email string
}

// NewUser checks that id is set and email is a bare address.
func NewUser(id, email string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("%w: empty id", ErrInvalidUser)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return User{}, fmt.Errorf("%w: bad email %q", ErrInvalidUser, email)
	}
	return User{ID: id, Email: email}, nil
}

// AuthAPI is the part of the journal API the session needs.
type AuthAPI interface {
	Register(ctx context.Context, email, password string) (*client.Account, error)
	Login(ctx context.Context, email, password string) (*client.Account, error)
	Logout(ctx context.Context) error
}

// Listener receives the new session; nil means signed out.
type Listener func(u *User)

type subscription struct {
	id int
	fn Listener
}

// Store holds the current session. It is safe for concurrent use.
// Listeners run synchronously, in subscription order, outside the lock.
type Store struct {
	api AuthAPI

	mu     sync.Mutex
	user   *User
	subs   []subscription
	nextID int
}

func NewStore(api AuthAPI) *Store {
	return &Store{api: api}
}

// Session returns the current user, if any.
func (s *Store) Session() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) (User, error) {
	acc, err := s.api.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	return s.publishAccount(acc)
}

// Register creates the account and signs it in.
func (s *Store) Register(ctx context.Context, email, password string) (User, error) {
	if _, err := s.api.Register(ctx, email, password); err != nil {
		return User{}, err
	}
	return s.SignIn(ctx, email, password)
}

// SignOut ends the session on the server. On failure the session is left as
// it was and the error is returned.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.publish(nil)
	return nil
}

// Expire signs out locally when err shows the server no longer accepts the
// session, for example after the refresh token ran out. It reports whether a
// session was dropped.
func (s *Store) Expire(err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	s.mu.Lock()
	active := s.user != nil
	s.mu.Unlock()
	if !active {
		return false
	}
	s.publish(nil)
	return true
}

func (s *Store) publishAccount(acc *client.Account) (User, error) {
	u, err := NewUser(acc.ID, acc.Email)
	if err != nil {
		return User{}, err
	}
	s.publish(&u)
	return u, nil
}

func (s *Store) publish(u *User) {
	s.mu.Lock()
	s.user = u
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if u == nil {
			sub.fn(nil)
			continue
		}
		cp := *u
		sub.fn(&cp)
	}
}
