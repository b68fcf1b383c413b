package recovery

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/forms"
	"github.com/dmitrijs2005/spentra/internal/logging"
)

// Step is a state of the flow.
type Step int

const (
	StepEmailEntry Step = iota
	StepOTPPending
	StepOTPVerified
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepEmailEntry:
		return "EMAIL_ENTRY"
	case StepOTPPending:
		return "OTP_PENDING"
	case StepOTPVerified:
		return "OTP_VERIFIED"
	case StepComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrWrongStep is returned when an event does not belong to the current step.
	ErrWrongStep = errors.New("recovery: action not allowed in current step")

	// ErrBusy is returned while a previous submit is still in flight.
	ErrBusy = errors.New("recovery: request already in progress")

	// ErrAbandoned means Reset was called while the request was in flight;
	// its result was not applied.
	ErrAbandoned = errors.New("recovery: flow was reset")
)

// Service is the backend side of the flow. services.AuthService satisfies it.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) (client.Ack, error)
	VerifyRecoveryCode(ctx context.Context, email, code string) (client.Ack, error)
	CommitNewPassword(ctx context.Context, email, code, newPassword string) (client.Ack, error)
}

type emailForm struct {
	Email string `form:"email" validate:"required,spentra_email"`
}

type codeForm struct {
	Code string `form:"code" validate:"required"`
}

type passwordForm struct {
	Password string `form:"password" validate:"required"`
	Confirm  string `form:"confirm password" validate:"required,eqfield=Password"`
}

// Flow is one recovery attempt. Its state lives in memory only.
// It is safe for concurrent use; overlapping submits get ErrBusy.
type Flow struct {
	svc   Service
	forms *forms.Validator
	log   logging.Logger

	mu          sync.Mutex
	step        Step
	email       string
	code        string
	otpVerified bool
	busy        bool
	// gen changes on Reset so late responses are dropped.
	gen uint64
}

// New returns a flow at StepEmailEntry.
func New(svc Service, log logging.Logger) *Flow {
	if log == nil {
		log = logging.Discard()
	}
	return &Flow{svc: svc, forms: forms.New(), log: log.With("component", "recovery")}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Email returns the address the flow was started for, "" before SubmitEmail.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// OTPVerified reports whether the backend accepted the code.
func (f *Flow) OTPVerified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otpVerified
}

// Reset discards the recovery state; the flow starts again at EMAIL_ENTRY.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepEmailEntry
	f.email, f.code = "", ""
	f.otpVerified = false
	f.busy = false
	f.gen++
}

// SubmitEmail validates email and asks the backend to send a code.
func (f *Flow) SubmitEmail(ctx context.Context, email string) (client.Ack, error) {
	email = strings.TrimSpace(email)
	if err := f.forms.Check(emailForm{Email: email}); err != nil {
		return nil, err
	}
	return f.run(ctx, StepEmailEntry, func(ctx context.Context, _, _ string) (client.Ack, error) {
		return f.svc.RequestPasswordReset(ctx, email)
	}, func() {
		f.email = email
		f.step = StepOTPPending
	})
}

// SubmitCode checks the code the user received.
func (f *Flow) SubmitCode(ctx context.Context, code string) (client.Ack, error) {
	code = strings.TrimSpace(code)
	if err := f.forms.Check(codeForm{Code: code}); err != nil {
		return nil, err
	}
	return f.run(ctx, StepOTPPending, func(ctx context.Context, email, _ string) (client.Ack, error) {
		return f.svc.VerifyRecoveryCode(ctx, email, code)
	}, func() {
		f.code = code
		f.otpVerified = true
		f.step = StepOTPVerified
	})
}

// SubmitNewPassword commits the new password. password and confirm must
// match; a mismatch never reaches the backend.
func (f *Flow) SubmitNewPassword(ctx context.Context, password, confirm string) (client.Ack, error) {
	if err := f.forms.Check(passwordForm{Password: password, Confirm: confirm}); err != nil {
		return nil, err
	}
	return f.run(ctx, StepOTPVerified, func(ctx context.Context, email, code string) (client.Ack, error) {
		return f.svc.CommitNewPassword(ctx, email, code, password)
	}, func() {
		f.step = StepComplete
	})
}

// run performs call when the flow is at want and applies advance on success.
// The lock is not held while call runs.
func (f *Flow) run(ctx context.Context, want Step,
	call func(ctx context.Context, email, code string) (client.Ack, error), advance func()) (client.Ack, error) {

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.step != want {
		f.mu.Unlock()
		return nil, ErrWrongStep
	}
	f.busy = true
	gen, email, code := f.gen, f.email, f.code
	f.mu.Unlock()

	ack, err := call(ctx, email, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil, ErrAbandoned
	}
	f.busy = false
	if err != nil {
		f.log.Warn(ctx, "recovery step failed", "step", want.String(), "error", err)
		return nil, err
	}
	advance()
	f.log.Info(ctx, "recovery step completed", "step", f.step.String())
	return ack, nil
}
