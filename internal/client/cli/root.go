package cli

import (
	"context"
	"fmt"
	"time"
)

// nowFn is a test seam for the clock used in the prompt.
var nowFn = time.Now

// getStatus renders the prompt status: empty when logged out,
// "(email)" or "(email, expires 15:04)" when logged in.
func (a *App) getStatus() string {
	snap := a.authService.Session()
	if !snap.Authenticated() {
		return ""
	}
	s := snap.User.Email
	if exp, ok := snap.Tokens.AccessExpiry(); ok {
		if nowFn().After(exp) {
			s += ", token expired"
		} else {
			s += ", expires " + exp.Local().Format("15:04")
		}
	}
	return fmt.Sprintf(" (%s)", s)
}

// Root greets the user and runs the REPL until exit.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Spentra CLI (type 'help' for commands)")
	if snap := a.authService.Session(); snap.Authenticated() {
		printlnFn("Logged in as", snap.User.Email)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
