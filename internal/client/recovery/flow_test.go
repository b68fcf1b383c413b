package recovery

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/spentra/internal/client/client"
	"github.com/dmitrijs2005/spentra/internal/client/forms"
	"github.com/dmitrijs2005/spentra/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService records calls and fails the ones named in errs.
type fakeService struct {
	calls []string
	args  [][]string
	errs  map[string]error

	// block, when set, is waited on inside the next call.
	block   chan struct{}
	entered chan struct{}
}

func (s *fakeService) do(name string, args ...string) (client.Ack, error) {
	s.calls = append(s.calls, name)
	s.args = append(s.args, args)
	if s.block != nil {
		close(s.entered)
		<-s.block
	}
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return client.Ack{"message": name + " ok"}, nil
}

func (s *fakeService) RequestPasswordReset(_ context.Context, email string) (client.Ack, error) {
	return s.do("forgot", email)
}

func (s *fakeService) VerifyRecoveryCode(_ context.Context, email, code string) (client.Ack, error) {
	return s.do("verify", email, code)
}

func (s *fakeService) CommitNewPassword(_ context.Context, email, code, pw string) (client.Ack, error) {
	return s.do("commit", email, code, pw)
}

func TestFlow_FullRecovery(t *testing.T) {
	svc := &fakeService{}
	f := New(svc, nil)
	ctx := context.Background()
	require.Equal(t, StepEmailEntry, f.Step())

	ack, err := f.SubmitEmail(ctx, " a@b.com ")
	require.NoError(t, err)
	assert.Equal(t, "forgot ok", ack.Message())
	assert.Equal(t, StepOTPPending, f.Step())
	assert.Equal(t, "a@b.com", f.Email())

	_, err = f.SubmitCode(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, StepOTPVerified, f.Step())
	assert.True(t, f.OTPVerified())

	_, err = f.SubmitNewPassword(ctx, "NewPass1", "NewPass1")
	require.NoError(t, err)
	assert.Equal(t, StepComplete, f.Step())

	assert.Equal(t, []string{"forgot", "verify", "commit"}, svc.calls)
	assert.Equal(t, [][]string{
		{"a@b.com"},
		{"a@b.com", "123456"},
		{"a@b.com", "123456", "NewPass1"},
	}, svc.args)

	f.Reset()
	assert.Equal(t, StepEmailEntry, f.Step())
	assert.Empty(t, f.Email())
	assert.False(t, f.OTPVerified())
}

func TestFlow_InvalidEmailNeverReachesBackend(t *testing.T) {
	for _, email := range []string{"bob", "", "a@b", "@b.com", "a@b.c", "a@@b.com"} {
		svc := &fakeService{}
		f := New(svc, nil)

		_, err := f.SubmitEmail(context.Background(), email)
		var ve *forms.ValidationError
		require.ErrorAs(t, err, &ve, email)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, StepEmailEntry, f.Step())
		assert.Empty(t, svc.calls, email)
	}

	svc := &fakeService{}
	_, err := New(svc, nil).SubmitEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"forgot"}, svc.calls)
}

func TestFlow_PasswordMismatchNeverCommits(t *testing.T) {
	svc := &fakeService{}
	f := New(svc, nil)
	ctx := context.Background()
	_, _ = f.SubmitEmail(ctx, "a@b.com")
	_, _ = f.SubmitCode(ctx, "123456")

	_, err := f.SubmitNewPassword(ctx, "NewPass1", "NewPass2")
	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "passwords do not match", ve.Message)
	assert.Equal(t, StepOTPVerified, f.Step())
	assert.NotContains(t, svc.calls, "commit")

	_, err = f.SubmitNewPassword(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.NotContains(t, svc.calls, "commit")
}

func TestFlow_BackendFailureKeepsStep(t *testing.T) {
	wrongOTP := &client.ServerError{StatusCode: 400, Payload: client.Ack{"error": "Invalid OTP"}}
	svc := &fakeService{errs: map[string]error{"verify": wrongOTP}}
	f := New(svc, nil)
	ctx := context.Background()

	_, err := f.SubmitEmail(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = f.SubmitCode(ctx, "000000")
	require.ErrorIs(t, err, wrongOTP)
	assert.Equal(t, StepOTPPending, f.Step())
	assert.False(t, f.OTPVerified())

	// the user may try again; nothing is retried automatically
	assert.Equal(t, []string{"forgot", "verify"}, svc.calls)
	svc.errs = nil
	_, err = f.SubmitCode(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, StepOTPVerified, f.Step())
}

func TestFlow_EmailRequestFailure(t *testing.T) {
	svc := &fakeService{errs: map[string]error{"forgot": errors.New("boom")}}
	f := New(svc, nil)

	_, err := f.SubmitEmail(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.Equal(t, StepEmailEntry, f.Step())
	assert.Empty(t, f.Email())
}

func TestFlow_WrongStep(t *testing.T) {
	f := New(&fakeService{}, nil)
	ctx := context.Background()

	_, err := f.SubmitCode(ctx, "123456")
	assert.ErrorIs(t, err, ErrWrongStep)
	_, err = f.SubmitNewPassword(ctx, "x", "x")
	assert.ErrorIs(t, err, ErrWrongStep)

	_, _ = f.SubmitEmail(ctx, "a@b.com")
	_, err = f.SubmitEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestFlow_BusyAndAbandoned(t *testing.T) {
	svc := &fakeService{block: make(chan struct{}), entered: make(chan struct{})}
	f := New(svc, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.SubmitEmail(ctx, "a@b.com")
		done <- err
	}()
	<-svc.entered

	_, err := f.SubmitEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrBusy)

	f.Reset()
	close(svc.block)
	assert.ErrorIs(t, <-done, ErrAbandoned)
	assert.Equal(t, StepEmailEntry, f.Step())
	assert.Empty(t, f.Email())
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "EMAIL_ENTRY", StepEmailEntry.String())
	assert.Equal(t, "COMPLETE", StepComplete.String())
	assert.Equal(t, "UNKNOWN", Step(42).String())
}
