package cli

import (
	"context"

	"github.com/dmitrijs2005/spentra/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and creates a new
// account. On success the user is logged in. The password byte slice is
// wiped before returning. Any I/O or service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Success! Logged in as", a.authService.Session().User.Email)
	return nil
}

// Login prompts the user for credentials and authenticates. A successful
// login replaces any previous session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Logged in as", a.authService.Session().User.DisplayName())
	return nil
}

// GoogleLogin authenticates with an ID token obtained from Google sign-in.
func (a *App) GoogleLogin(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste your Google ID token", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.GoogleLogin(ctx, token); err != nil {
		return err
	}

	printlnFn("Logged in as", a.authService.Session().User.DisplayName())
	return nil
}

// Logout clears the session locally. It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
