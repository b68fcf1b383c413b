package cli

import (
	"errors"

	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/forms"
	"github.com/dmitrijs2005/spentra/internal/client/recovery"
	"github.com/dmitrijs2005/spentra/internal/client/services"
	"github.com/dmitrijs2005/spentra/internal/client/session"
	"github.com/dmitrijs2005/spentra/internal/common"
)

// describeError turns err into a line fit for the terminal.
func describeError(err error) string {
	var (
		ve *forms.ValidationError
		ae *services.AuthError
		se *client.ServerError
	)

	switch {
	case errors.As(err, &ve):
		return ve.Error()

	case errors.As(err, &ae):
		switch ae.Reason {
		case services.ReasonNoAccessToken:
			return "login failed: the server did not return an access token"
		case services.ReasonNoUser:
			return "the server did not return a user profile"
		}
		if errors.As(err, &se) && se.Message() != "" {
			return "login failed: " + se.Message()
		}
		return "login failed: invalid credentials"

	case client.IsNetworkError(err), errors.Is(err, common.ErrUnavailable):
		return "server unavailable, please try again later"

	case errors.Is(err, common.ErrUnauthorized):
		if errors.As(err, &se) {
			return "your session is no longer valid"
		}
		return "you are not logged in"

	case errors.As(err, &se):
		if msg := se.Message(); msg != "" {
			return msg
		}
		return se.Error()

	case errors.Is(err, session.ErrBusy), errors.Is(err, recovery.ErrBusy):
		return "another request is still in progress"

	case errors.Is(err, session.ErrSuperseded):
		return "you were logged out while the request was running"
	}
	return err.Error()
}
