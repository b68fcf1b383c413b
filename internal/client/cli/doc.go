// Package cli provides the interactive Spentra command-line client.
//
// It wires configuration, the local credential store, the session state,
// the backend client and an interactive REPL. On start-up the previous
// session is restored from the store, so a logged-in user stays logged in
// between runs.
//
// Key features:
//   - Register / Login / Google login / Logout
//   - Forgot password (email, one-time code, new password)
//   - Profile: show, edit, change password
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
