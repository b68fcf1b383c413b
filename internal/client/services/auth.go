// Package services contains application services for the Spentra client.
// This file defines the session core: login, social login, registration,
// logout, password recovery calls and profile maintenance.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/forms"
	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/client/session"
	"github.com/dmitrijs2005/spentra/internal/common"
	"github.com/dmitrijs2005/spentra/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login, GoogleLogin, Register: authenticate against the backend and
//     replace the session (user and tokens together) on success.
//   - Logout: clear the session; never fails and needs no network.
//   - RequestPasswordReset, VerifyRecoveryCode, CommitNewPassword: the three
//     recovery calls; they return the backend ack and never touch the session.
//   - Profile, UpdateProfile, ChangePassword: require a logged-in session.
//   - Session: current snapshot.
//
// Every operation except Logout and Session marks the session as loading
// for its duration and fails with session.ErrBusy while another one runs.
// Failures are returned to the caller, never retried.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	GoogleLogin(ctx context.Context, providerToken string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context)

	RequestPasswordReset(ctx context.Context, email string) (client.Ack, error)
	VerifyRecoveryCode(ctx context.Context, email, code string) (client.Ack, error)
	CommitNewPassword(ctx context.Context, email, code, newPassword string) (client.Ack, error)

	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, current, newPassword, confirm string) (client.Ack, error)

	Session() models.Session
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	state  *session.State
	forms  *forms.Validator
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client
// and session state.
func NewAuthService(c client.Client, state *session.State, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: c, state: state, forms: forms.New(), log: log.With("component", "auth")}
}

type credentialsForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Email    string `form:"email" validate:"required,spentra_email"`
	Password string `form:"password" validate:"required"`
}

type profileForm struct {
	Name  string `form:"name"`
	Email string `form:"email" validate:"required,spentra_email"`
}

type passwordChangeForm struct {
	Current string `form:"current password" validate:"required"`
	New     string `form:"new password" validate:"required"`
	Confirm string `form:"confirm password" validate:"required,eqfield=New"`
}

// Login authenticates with email and password (POST /users/token/).
// Both fields are required; the email format is left to the backend.
func (a *authService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := a.forms.Check(credentialsForm{Email: email, Password: password}); err != nil {
		return err
	}
	return a.authenticate(ctx, "login", true, func(ctx context.Context) (*client.AuthResponse, error) {
		return a.client.ObtainToken(ctx, email, password)
	})
}

// GoogleLogin authenticates with a Google ID token under the same rules
// as Login.
func (a *authService) GoogleLogin(ctx context.Context, providerToken string) error {
	providerToken = strings.TrimSpace(providerToken)
	if providerToken == "" {
		return &forms.ValidationError{Field: "token", Message: "must not be empty"}
	}
	return a.authenticate(ctx, "google login", true, func(ctx context.Context) (*client.AuthResponse, error) {
		return a.client.GoogleAuth(ctx, providerToken)
	})
}

// Register creates an account and seeds the session exactly like Login.
// Backend rejections are returned as they are, not as AuthError.
func (a *authService) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := a.forms.Check(registerForm{Email: email, Password: password}); err != nil {
		return err
	}
	return a.authenticate(ctx, "register", false, func(ctx context.Context) (*client.AuthResponse, error) {
		return a.client.Register(ctx, email, password)
	})
}

// authenticate runs call under a ticket and establishes the session from
// its response. With rejectAsAuth, 400/401 answers become AuthError.
func (a *authService) authenticate(ctx context.Context, op string, rejectAsAuth bool,
	call func(ctx context.Context) (*client.AuthResponse, error)) error {

	t, err := a.state.Begin()
	if err != nil {
		return err
	}
	defer t.End()

	resp, err := call(ctx)
	if err != nil {
		if rejectAsAuth && isCredentialRejection(err) {
			err = &AuthError{Reason: ReasonInvalidCredentials, Err: err}
		}
		a.log.Warn(ctx, op+" failed", "error_kind", errorKind(err))
		return err
	}

	if resp == nil || resp.Access == "" {
		a.log.Warn(ctx, op+" failed", "error_kind", "auth", "reason", ReasonNoAccessToken)
		return &AuthError{Reason: ReasonNoAccessToken}
	}
	if !hasIdentity(resp.User) {
		a.log.Warn(ctx, op+" failed", "error_kind", "auth", "reason", ReasonNoUser)
		return &AuthError{Reason: ReasonNoUser}
	}

	tokens := &models.TokenPair{Access: resp.Access, Refresh: resp.Refresh}
	if err := a.state.Establish(ctx, t, resp.User, tokens); err != nil {
		a.log.Warn(ctx, op+" failed", "error_kind", errorKind(err))
		return err
	}

	a.log.Info(ctx, op+" succeeded", "email", resp.User.Email)
	return nil
}

// Logout clears the session and the stored credentials. It does not call
// the backend and cannot fail.
func (a *authService) Logout(ctx context.Context) {
	email := ""
	if snap := a.state.Snapshot(); snap.User != nil {
		email = snap.User.Email
	}
	a.state.Clear(ctx)
	a.log.Info(ctx, "logged out", "email", email)
}

// RequestPasswordReset asks the backend to send a recovery code to email.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) (client.Ack, error) {
	return a.ack(ctx, "password reset request", func(ctx context.Context) (client.Ack, error) {
		return a.client.ForgotPassword(ctx, email)
	})
}

// VerifyRecoveryCode checks the code sent to email.
func (a *authService) VerifyRecoveryCode(ctx context.Context, email, code string) (client.Ack, error) {
	return a.ack(ctx, "recovery code check", func(ctx context.Context) (client.Ack, error) {
		return a.client.VerifyOTP(ctx, email, code)
	})
}

// CommitNewPassword sets the new password. The user still has to log in.
func (a *authService) CommitNewPassword(ctx context.Context, email, code, newPassword string) (client.Ack, error) {
	return a.ack(ctx, "new password commit", func(ctx context.Context) (client.Ack, error) {
		return a.client.SetNewPassword(ctx, email, code, newPassword)
	})
}

func (a *authService) ack(ctx context.Context, op string, call func(ctx context.Context) (client.Ack, error)) (client.Ack, error) {
	t, err := a.state.Begin()
	if err != nil {
		return nil, err
	}
	defer t.End()

	ack, err := call(ctx)
	if err != nil {
		a.log.Warn(ctx, op+" failed", "error_kind", errorKind(err))
		return nil, err
	}
	a.log.Debug(ctx, op+" accepted")
	return ack, nil
}

// Profile fetches the user record and replaces the session user with it.
func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	return a.refreshUser(ctx, "profile read", func(ctx context.Context) (*models.User, error) {
		return a.client.Me(ctx)
	})
}

// UpdateProfile saves name and email and replaces the session user with
// the backend's answer.
func (a *authService) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	upd := profileForm{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := a.forms.Check(upd); err != nil {
		return nil, err
	}
	return a.refreshUser(ctx, "profile update", func(ctx context.Context) (*models.User, error) {
		return a.client.UpdateMe(ctx, client.ProfileUpdate{Name: upd.Name, Email: upd.Email})
	})
}

// refreshUser replaces the session user with the one returned by call.
func (a *authService) refreshUser(ctx context.Context, op string, call func(ctx context.Context) (*models.User, error)) (*models.User, error) {
	if !a.state.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	t, err := a.state.Begin()
	if err != nil {
		return nil, err
	}
	defer t.End()

	user, err := call(ctx)
	if err != nil {
		a.log.Warn(ctx, op+" failed", "error_kind", errorKind(err))
		return nil, err
	}
	if !hasIdentity(user) {
		a.log.Warn(ctx, op+" failed", "error_kind", "auth", "reason", ReasonNoUser)
		return nil, &AuthError{Reason: ReasonNoUser}
	}
	if err := a.state.ReplaceUser(ctx, t, user); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	return user.Clone(), nil
}

// ChangePassword changes the password of the logged-in user; confirm must
// equal newPassword. Tokens are kept.
func (a *authService) ChangePassword(ctx context.Context, current, newPassword, confirm string) (client.Ack, error) {
	if !a.state.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	f := passwordChangeForm{Current: current, New: newPassword, Confirm: confirm}
	if err := a.forms.Check(f); err != nil {
		return nil, err
	}
	return a.ack(ctx, "password change", func(ctx context.Context) (client.Ack, error) {
		return a.client.ChangePassword(ctx, client.PasswordChange{Current: current, New: newPassword, Confirm: confirm})
	})
}

// Session returns a snapshot of the current session.
func (a *authService) Session() models.Session {
	return a.state.Snapshot()
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// hasIdentity rejects nil records and the zero User an empty or null
// response body decodes to.
func hasIdentity(u *models.User) bool {
	return u != nil && (u.ID != 0 || u.Email != "")
}

func isCredentialRejection(err error) bool {
	var se *client.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusUnauthorized
}

// errorKind names the class of err for logs.
func errorKind(err error) string {
	var ae *AuthError
	var se *client.ServerError
	switch {
	case errors.As(err, &ae):
		return "auth"
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrUnavailable):
		return "network"
	case errors.As(err, &se):
		return "server"
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrSuperseded):
		return "session"
	default:
		return "internal"
	}
}
