package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/spentra/internal/common"
)

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == common.ErrUnavailable
}

// ServerError is a response with status >= 400, or a success response the
// client could not decode. Payload holds the decoded JSON body when there
// was one; Body holds the raw text otherwise.
type ServerError struct {
	StatusCode int
	Payload    Ack
	Body       string
}

func (e *ServerError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

func (e *ServerError) Is(target error) bool {
	if target != common.ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Message picks a human readable explanation out of the payload. Django
// REST framework answers with "detail", "error" or "message"; validation
// failures come back as {"field": ["msg", ...]}.
func (e *ServerError) Message() string {
	if msg := e.Payload.Message(); msg != "" {
		return msg
	}
	if len(e.Payload) > 0 {
		keys := make([]string, 0, len(e.Payload))
		for k := range e.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := firstString(e.Payload[k]); s != "" {
				return k + ": " + s
			}
		}
	}
	return strings.TrimSpace(e.Body)
}

// Ack is a backend-defined acknowledgement body.
type Ack map[string]any

// Message returns the first of detail, error or message that is a string.
func (a Ack) Message() string {
	for _, k := range []string{"detail", "error", "message"} {
		if s, ok := a[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if s := firstString(item); s != "" {
				return s
			}
		}
	case json.Number:
		return t.String()
	}
	return ""
}
