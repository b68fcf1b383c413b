// Package client is the authenticated request gateway to the Spentra
// REST backend.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface) covering
//     token issuance, registration, password recovery and profile calls.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient). The bearer
//     credential is read from a TokenSource when each request is built, so
//     no shared client configuration is mutated on login or logout.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite credential store, using embedded goose migrations.
//
// # Error Handling
//
// Transport failures are returned as *NetworkError (errors.Is
// common.ErrUnavailable). Non-2xx responses are returned as *ServerError;
// 401 and 403 additionally match common.ErrUnauthorized. Nothing is retried.
//
// Concurrency & Contexts
//
// HTTPClient and StaticToken are safe for concurrent use. All calls take a
// context.Context and honour cancellation; each call is also bounded by the
// configured request timeout.
package client
