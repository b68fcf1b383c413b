// Package session holds the in-memory authentication state of the client
// and keeps the persistent credential store in step with it.
//
// A State is created once at start-up, seeded from the store with Restore,
// and then owned by the session core (services.AuthService): consumers read
// snapshots and subscribe to changes, only the core mutates it.
//
// Invariants:
//   - user and tokens are set and cleared together;
//   - every mutation rewrites all three store keys (user, access, refresh),
//     saving the present ones and removing the absent ones;
//   - loading is true only between Begin and Ticket.End.
package session
