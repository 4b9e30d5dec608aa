// Package notify prints short status messages for the user, one per line.
package notify

import (
	"fmt"
	"io"
	"sync"
)

const (
	MsgSaved     = "Journal entry saved"
	MsgCleared   = "All fields have been reset"
	MsgSignedOut = "Signed out"

	MsgSessionExpired = "Session expired, please log in again"
)

type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Success(msg string) {
	n.write("ok", msg)
}

// Error prints msg followed by err, if any.
func (n *Notifier) Error(msg string, err error) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	n.write("error", msg)
}

func (n *Notifier) write(kind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", kind, msg)
}
