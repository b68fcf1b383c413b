// Package models defines client-side data models used by the Spentra CLI.
package models

import (
	"encoding/json"
	"maps"
)

// User is the identity record returned by the backend on login,
// registration and profile calls. It is replaced wholesale on every such
// response.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	// Extra keeps any other profile fields (full_name, country, ...) so the
	// persisted copy mirrors the backend payload.
	Extra map[string]json.RawMessage `json:"-"`
}

// DisplayName returns Name when set and Email otherwise.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Clone returns a deep copy so snapshots handed to consumers cannot alias
// session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Extra = maps.Clone(u.Extra)
	return &c
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["email"] = u.Email
	if u.Name != "" {
		out["name"] = u.Name
	}
	return json.Marshal(out)
}

func (u *User) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	type known struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	var k known
	if err := json.Unmarshal(b, &k); err != nil {
		return err
	}

	delete(raw, "id")
	delete(raw, "email")
	delete(raw, "name")

	u.ID, u.Email, u.Name = k.ID, k.Email, k.Name
	u.Extra = nil
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}
