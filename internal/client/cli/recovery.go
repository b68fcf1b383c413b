package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/recovery"
	"github.com/dmitrijs2005/spentra/internal/common"
)

var errCancelled = errors.New("cancelled")

// Forgot walks the user through password recovery. Invalid input and
// backend errors are printed and the current step is asked again; an empty
// email or code cancels. After the new password is set the user is sent to login.
func (a *App) Forgot(ctx context.Context) error {
	flow := recovery.New(a.authService, a.log)
	defer flow.Reset()

	for flow.Step() != recovery.StepComplete {
		ack, err := a.recoveryStep(ctx, flow)
		if errors.Is(err, errCancelled) {
			printlnFn("Password recovery cancelled.")
			return nil
		}
		if err != nil {
			if isInputError(err) {
				return err
			}
			printlnFn("Error:", describeError(err))
			continue
		}
		if msg := ack.Message(); msg != "" {
			printlnFn(msg)
		}
	}

	printlnFn("Password updated. Please log in with your new password.")
	return a.Login(ctx)
}

func (a *App) recoveryStep(ctx context.Context, flow *recovery.Flow) (client.Ack, error) {
	switch flow.Step() {
	case recovery.StepEmailEntry:
		email, err := getSimpleText(a.reader, "Enter your account email (empty to cancel)", a.out)
		if err != nil {
			return nil, inputError{err}
		}
		if email == "" {
			return nil, errCancelled
		}
		return flow.SubmitEmail(ctx, email)

	case recovery.StepOTPPending:
		code, err := getSimpleText(a.reader, "Enter the code sent to "+flow.Email()+" (empty to cancel)", a.out)
		if err != nil {
			return nil, inputError{err}
		}
		if code == "" {
			return nil, errCancelled
		}
		return flow.SubmitCode(ctx, code)

	case recovery.StepOTPVerified:
		password, err := getPassword("New password", a.out)
		if err != nil {
			return nil, inputError{err}
		}
		defer common.WipeByteArray(password)
		confirm, err := getPassword("Confirm new password", a.out)
		if err != nil {
			return nil, inputError{err}
		}
		defer common.WipeByteArray(confirm)
		return flow.SubmitNewPassword(ctx, string(password), string(confirm))
	}
	return nil, recovery.ErrWrongStep
}

// inputError marks a failure to read from the terminal; it ends the flow.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func isInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie) || errors.Is(err, recovery.ErrWrongStep)
}
