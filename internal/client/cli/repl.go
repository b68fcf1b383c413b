package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/spentra/internal/client/services"
	"github.com/dmitrijs2005/spentra/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Spentra CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is cancelled, or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate with email and password
//	  - google         authenticate with a Google ID token
//	  - forgot         reset a forgotten password
//	  - status         show connection and session details
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - whoami         show the stored identity
//	  - profile        fetch the profile from the server
//	  - editprofile    change name or email
//	  - passwd         change password
//	  - status         show connection and session details
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Errors returned by command handlers are printed. When the backend says
// the session is no longer valid the user is sent to login.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("spentra%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil || ctx.Err() != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, editprofile, passwd, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, google, forgot, status, exit")
			}

		case "register":
			report(ctx, a, a.Register(ctx))

		case "login":
			report(ctx, a, a.Login(ctx))

		case "google":
			report(ctx, a, a.GoogleLogin(ctx))

		case "forgot":
			report(ctx, a, a.Forgot(ctx))

		case "whoami":
			report(ctx, a, a.WhoAmI(ctx))

		case "profile":
			report(ctx, a, a.Profile(ctx))

		case "editprofile":
			report(ctx, a, a.EditProfile(ctx))

		case "passwd":
			report(ctx, a, a.ChangePassword(ctx))

		case "status":
			report(ctx, a, a.Status(ctx))

		case "logout":
			report(ctx, a, a.Logout(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// report prints err, if any, and runs login when err says the session
// is missing or was rejected by the backend.
func report(ctx context.Context, a execIface, err error) {
	if err == nil {
		return
	}
	printlnFn("Error:", describeError(err))
	if !needsLogin(err) {
		return
	}
	printlnFn("Please log in.")
	if err := a.Login(ctx); err != nil {
		printlnFn("Error:", describeError(err))
	}
}

// needsLogin is true for 401/403 answers on authenticated calls and for
// calls made without a session. Failed logins themselves do not count.
func needsLogin(err error) bool {
	var ae *services.AuthError
	if errors.As(err, &ae) {
		return false
	}
	return errors.Is(err, common.ErrUnauthorized)
}
