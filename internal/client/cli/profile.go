package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/common"
)

// WhoAmI prints the identity of the current session without calling the backend.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.authService.Session()
	if !snap.Authenticated() {
		printlnFn("Not logged in.")
		return nil
	}
	a.printUser(snap.User)
	return nil
}

// Profile fetches the profile from the backend and prints it.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

// EditProfile asks for a new name and email; an empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	snap := a.authService.Session()
	if !snap.Authenticated() {
		return common.ErrUnauthorized
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", snap.User.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = snap.User.Name
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", snap.User.Email), a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = snap.User.Email
	}

	u, err := a.authService.UpdateProfile(ctx, name, email)
	if err != nil {
		return err
	}
	printlnFn("Profile updated.")
	a.printUser(u)
	return nil
}

// ChangePassword asks for the current password and the new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrUnauthorized
	}

	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	confirm, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	ack, err := a.authService.ChangePassword(ctx, string(current), string(next), string(confirm))
	if err != nil {
		return err
	}
	if msg := ack.Message(); msg != "" {
		printlnFn(msg)
	} else {
		printlnFn("Password changed.")
	}
	return nil
}

// Status prints where the client connects and what the session holds.
func (a *App) Status(ctx context.Context) error {
	a.printf("Server: %s\n", a.config.ServerBaseURL)
	a.printf("Store: %s\n", a.config.StorePath)

	snap := a.authService.Session()
	if !snap.Authenticated() {
		a.printf("Session: logged out\n")
		return nil
	}
	a.printf("Session: logged in as %s\n", snap.User.Email)
	if exp, ok := snap.Tokens.AccessExpiry(); ok {
		a.printf("Access token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	if snap.Tokens.Refresh != "" {
		a.printf("Refresh token: stored\n")
	}
	return nil
}

func (a *App) printUser(u *models.User) {
	a.printf("ID: %d\n", u.ID)
	a.printf("Email: %s\n", u.Email)
	if u.Name != "" {
		a.printf("Name: %s\n", u.Name)
	}
	keys := make([]string, 0, len(u.Extra))
	for k := range u.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.printf("%s: %s\n", k, strings.Trim(string(u.Extra[k]), `"`))
	}
}
