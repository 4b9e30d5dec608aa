// Package cli provides the interactive Daily Journal command-line client.
//
// It wires configuration, the gRPC API client, the session store, the view
// state machine and the journal form into a REPL. Typical flow: sign in or
// register, look at the dashboard (entry count, streak, today's status),
// open today's journal, fill it in and save.
//
// Key features:
//   - Register / Login / Logout
//   - Dashboard statistics
//   - Journal form with per-field limits and star ratings
//   - Doodle upload for a saved page
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
