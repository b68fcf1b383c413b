package services

import (
	"fmt"

	"github.com/dmitrijs2005/spentra/internal/common"
)

// AuthError reasons.
const (
	ReasonNoAccessToken      = "no_access_token"
	ReasonNoUser             = "no_user"
	ReasonInvalidCredentials = "invalid_credentials"
)

// AuthError means the backend rejected the credentials or answered without
// an identity to log in with. Err, when set, is the backend error.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error (%s): %v", e.Reason, e.Err)
	}
	return "auth error: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches common.ErrUnauthorized for every reason and
// common.ErrNoAccessToken for "no_access_token".
func (e *AuthError) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return true
	case common.ErrNoAccessToken:
		return e.Reason == ReasonNoAccessToken
	}
	return false
}
