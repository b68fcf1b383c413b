// Package common contains shared constants, sentinel errors and small
// helpers used across Spentra client components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access
// token on outbound backend requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates a client request with backend logs.
const RequestIDHeaderName = "X-Request-ID"
