package models

// Session is an immutable snapshot of the authentication state.
//
// User and Tokens are either both nil (logged out) or both set. Loading is
// true only while a session operation is in flight.
type Session struct {
	User    *User
	Tokens  *TokenPair
	Loading bool
}

// Authenticated reports whether the snapshot holds a logged-in identity.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Tokens.Valid()
}
