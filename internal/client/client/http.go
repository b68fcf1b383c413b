package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/common"
	"github.com/dmitrijs2005/spentra/internal/logging"
	"github.com/google/uuid"
)

const (
	pathToken          = "/users/token/"
	pathGoogleAuth     = "/users/google-auth/"
	pathRegister       = "/users/register/"
	pathForgotPassword = "/users/forgot-password/"
	pathVerifyOTP      = "/users/verify-otp/"
	pathSetNewPassword = "/users/set-new-password/"
	pathMe             = "/users/me/"
	pathChangePassword = "/users/change-password/"

	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "spentra-cli"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks JSON to the backend. The bearer token is taken from its
// TokenSource each time a request is built.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	timeout   time.Duration
	userAgent string
	log       logging.Logger
}

// Option configures an HTTPClient at construction.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (e.g. httptest's).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every call; zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) { c.userAgent = ua }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient validates baseURL and returns a client. tokens may be nil,
// in which case every request is sent unauthenticated.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: want http(s)://host[:port]", baseURL)
	}
	if tokens == nil {
		tokens = noToken{}
	}

	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type requestOptions struct {
	anonymous bool
}

// requestOption tweaks the credential of a single call.
type requestOption func(*requestOptions)

// withoutBearer sends the request without an Authorization header. The
// credential endpoints use it so a stale token never rides along.
func withoutBearer() requestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// bearer picks the token for one request: none for anonymous calls,
// otherwise whatever the TokenSource holds right now.
func (c *HTTPClient) bearer(o requestOptions) string {
	if o.anonymous {
		return ""
	}
	return c.tokens.AccessToken()
}

// do sends a JSON request to path and decodes a JSON response into out
// (which may be nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, opts ...requestOption) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := c.bearer(ro); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "backend request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	c.log.Debug(ctx, "backend request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return newServerError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ServerError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func newServerError(status int, raw []byte) *ServerError {
	se := &ServerError{StatusCode: status}
	var payload Ack
	if err := json.Unmarshal(raw, &payload); err == nil {
		se.Payload = payload
	} else {
		se.Body = string(raw)
	}
	return se
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, in any) (*AuthResponse, error) {
	var resp AuthResponse
	// Credential endpoints never carry a possibly stale bearer.
	if err := c.do(ctx, http.MethodPost, path, in, &resp, withoutBearer()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ack(ctx context.Context, path string, in any) (Ack, error) {
	var a Ack
	if err := c.do(ctx, http.MethodPost, path, in, &a, withoutBearer()); err != nil {
		return nil, err
	}
	return a, nil
}

// ObtainToken exchanges email and password for a token pair (POST /users/token/).
func (c *HTTPClient) ObtainToken(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, pathToken, map[string]string{"username": username, "password": password})
}

// GoogleAuth exchanges a Google ID token for a token pair.
func (c *HTTPClient) GoogleAuth(ctx context.Context, providerToken string) (*AuthResponse, error) {
	return c.authenticate(ctx, pathGoogleAuth, map[string]string{"token": providerToken})
}

// Register creates an account; the backend answers like ObtainToken.
func (c *HTTPClient) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, pathRegister, map[string]string{"email": email, "password": password})
}

// ForgotPassword asks the backend to mail a one-time code to email.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (Ack, error) {
	return c.ack(ctx, pathForgotPassword, map[string]string{"email": email})
}

// VerifyOTP checks the one-time code for email.
func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (Ack, error) {
	return c.ack(ctx, pathVerifyOTP, map[string]string{"email": email, "otp": otp})
}

// SetNewPassword commits a new password, authorized by email and code.
func (c *HTTPClient) SetNewPassword(ctx context.Context, email, otp, newPassword string) (Ack, error) {
	return c.ack(ctx, pathSetNewPassword, map[string]string{"email": email, "otp": otp, "new_password": newPassword})
}

// Me fetches the profile of the logged-in user. An empty body yields a
// zero User; callers decide whether that is acceptable.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, pathMe, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe replaces name and email and returns the stored profile.
func (c *HTTPClient) UpdateMe(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, pathMe, upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword changes the password of the logged-in user.
func (c *HTTPClient) ChangePassword(ctx context.Context, change PasswordChange) (Ack, error) {
	var a Ack
	if err := c.do(ctx, http.MethodPost, pathChangePassword, change, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// IsNetworkError reports whether err came from a request that never reached
// the backend.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
