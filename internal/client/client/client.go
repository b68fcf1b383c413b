package client

import (
	"context"

	"github.com/dmitrijs2005/spentra/internal/client/models"
)

// AuthResponse is the body of the token, google-auth and register endpoints.
type AuthResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

// ProfileUpdate is the body of PUT /users/me/.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordChange is the body of POST /users/change-password/.
type PasswordChange struct {
	Current string `json:"current"`
	New     string `json:"new"`
	Confirm string `json:"confirm"`
}

// Client is the backend API contract used by the session core.
type Client interface {
	ObtainToken(ctx context.Context, username, password string) (*AuthResponse, error)
	GoogleAuth(ctx context.Context, providerToken string) (*AuthResponse, error)
	Register(ctx context.Context, email, password string) (*AuthResponse, error)

	ForgotPassword(ctx context.Context, email string) (Ack, error)
	VerifyOTP(ctx context.Context, email, otp string) (Ack, error)
	SetNewPassword(ctx context.Context, email, otp, newPassword string) (Ack, error)

	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, upd ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, change PasswordChange) (Ack, error)

	Close() error
}
