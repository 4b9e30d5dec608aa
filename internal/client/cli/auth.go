package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyjournal/internal/client/notify"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

// getSimpleText, getLine, getMultiline and getPassword are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getLine = GetLine
var getMultiline = GetMultiline
var getPassword = GetPassword

func (a *App) askCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password, creates the account and signs
// it in. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Email)
	return a.Stats(ctx)
}

// Login prompts for credentials and signs in. The view follows the session,
// so a successful login lands on the dashboard.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.SignIn(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	return a.Stats(ctx)
}

// Logout ends the session. A failure is reported to the user and the
// session stays as it was.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		a.notifier.Error("Sign out failed", err)
		return nil
	}
	a.form = nil
	a.notifier.Success(notify.MsgSignedOut)
	return nil
}

func (a *App) getStatus() string {
	s := a.state().String()
	if u, ok := a.views.User(); ok {
		s = u.Email + " " + s
	}
	if m := a.Mode(); m == ModeOffline {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}
