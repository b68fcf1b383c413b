// Package credentials is the persistent credential store: a durable
// key/value table that mirrors the session (user, access, refresh) so it
// survives restarts. It is written on every session mutation and read
// once at start-up.
package credentials
