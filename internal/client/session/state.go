package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spentra/internal/logging"
)

var (
	// ErrBusy is returned by Begin while another operation is in flight.
	ErrBusy = errors.New("another session operation is in progress")

	// ErrSuperseded means the session was cleared (logout) after the
	// operation started; its result was discarded.
	ErrSuperseded = errors.New("session changed while the request was in flight")

	// ErrInvalidTokens is returned when asked to establish a session
	// without a user or without an access token.
	ErrInvalidTokens = errors.New("session requires a user and an access token")

	// ErrNotAuthenticated is returned by ReplaceUser on a logged-out session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Store is the persistence the state mirrors itself into.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, fn func(ctx context.Context, r credentials.Repository) error) error
}

// State is the single source of truth for "am I logged in".
// It is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	user    *models.User
	tokens  *models.TokenPair
	loading bool
	// epoch increments on every Clear so late responses can be dropped.
	epoch uint64
	// version increments on every mutation and orders notifications.
	version uint64

	store Store
	log   logging.Logger

	// deliverMu serializes notifications; delivered is the newest version
	// handed to subscribers.
	deliverMu sync.Mutex
	delivered uint64

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(models.Session)
}

// New returns a logged-out State mirrored into store. Call Restore before
// handing it to consumers. log may be nil.
func New(store Store, log logging.Logger) *State {
	if log == nil {
		log = logging.Discard()
	}
	return &State{store: store, log: log.With("component", "session"), subs: map[int]func(models.Session){}}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() models.Session {
	return models.Session{User: s.user.Clone(), Tokens: s.tokens.Clone(), Loading: s.loading}
}

// AccessToken implements client.TokenSource; "" when logged out.
func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Access
}

// IsAuthenticated reports whether a user and an access token are held.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.tokens.Valid()
}

// Subscribe registers fn to receive a snapshot after every change. fn runs
// synchronously on the mutating goroutine and must not call back into
// mutating State methods. Snapshots arrive in mutation order; when two
// mutations race, the older snapshot may be skipped, but the last one a
// subscriber sees is always the current state. The returned func
// unsubscribes.
func (s *State) Subscribe(fn func(models.Session)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// changedLocked records a mutation and returns the snapshot to publish.
// Callers hold mu.
func (s *State) changedLocked() (uint64, models.Session) {
	s.version++
	return s.version, s.snapshotLocked()
}

// notify hands snap to subscribers unless a newer version was already
// delivered.
func (s *State) notify(version uint64, snap models.Session) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.subMu.Lock()
	fns := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Ticket represents one in-flight operation started with Begin.
type Ticket struct {
	s     *State
	epoch uint64
	once  sync.Once
}

// Begin marks the session as loading. Overlapping operations are refused
// with ErrBusy; Logout (Clear) is never refused.
func (s *State) Begin() (*Ticket, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.loading = true
	t := &Ticket{s: s, epoch: s.epoch}
	v, snap := s.changedLocked()
	s.mu.Unlock()

	s.notify(v, snap)
	return t, nil
}

// End clears the loading flag. Calling it more than once is harmless.
func (t *Ticket) End() {
	t.once.Do(func() {
		t.s.mu.Lock()
		t.s.loading = false
		v, snap := t.s.changedLocked()
		t.s.mu.Unlock()

		t.s.notify(v, snap)
	})
}

// Establish replaces user and tokens together. The store is written first,
// in one transaction; if that fails nothing changes in memory either.
func (s *State) Establish(ctx context.Context, t *Ticket, user *models.User, tokens *models.TokenPair) error {
	if user == nil || !tokens.Valid() {
		return ErrInvalidTokens
	}

	s.mu.Lock()
	if t.epoch != s.epoch {
		s.mu.Unlock()
		return ErrSuperseded
	}
	user, tokens = user.Clone(), tokens.Clone()
	if err := s.persist(ctx, user, tokens); err != nil {
		s.mu.Unlock()
		return err
	}
	s.user, s.tokens = user, tokens
	v, snap := s.changedLocked()
	s.mu.Unlock()

	s.notify(v, snap)
	return nil
}

// ReplaceUser swaps the user record wholesale, keeping the tokens. It is
// used after profile reads and updates.
func (s *State) ReplaceUser(ctx context.Context, t *Ticket, user *models.User) error {
	if user == nil {
		return ErrInvalidTokens
	}

	s.mu.Lock()
	if t.epoch != s.epoch {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if s.user == nil || !s.tokens.Valid() {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	user = user.Clone()
	if err := s.persist(ctx, user, s.tokens); err != nil {
		s.mu.Unlock()
		return err
	}
	s.user = user
	v, snap := s.changedLocked()
	s.mu.Unlock()

	s.notify(v, snap)
	return nil
}

// Clear logs out: memory is cleared unconditionally, then the store keys
// are removed. The removal ignores cancellation of ctx so a logout is never
// undone by the next Restore. Store failures are logged, never returned.
// Operations that began before Clear will not be able to re-establish the
// session.
func (s *State) Clear(ctx context.Context) {
	s.mu.Lock()
	s.user, s.tokens = nil, nil
	s.epoch++
	if err := s.persist(context.WithoutCancel(ctx), nil, nil); err != nil {
		s.log.Error(ctx, "failed to clear stored credentials", "error", err)
	}
	v, snap := s.changedLocked()
	s.mu.Unlock()

	s.notify(v, snap)
}

// persist writes each key if present and removes it if absent.
func (s *State) persist(ctx context.Context, user *models.User, tokens *models.TokenPair) error {
	var userJSON []byte
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		userJSON = b
	}
	var access, refresh string
	if tokens != nil {
		access, refresh = tokens.Access, tokens.Refresh
	}

	err := s.store.Update(ctx, func(ctx context.Context, r credentials.Repository) error {
		if err := writeOrClear(ctx, r, credentials.KeyUser, userJSON); err != nil {
			return err
		}
		if err := writeOrClear(ctx, r, credentials.KeyAccess, []byte(access)); err != nil {
			return err
		}
		return writeOrClear(ctx, r, credentials.KeyRefresh, []byte(refresh))
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func writeOrClear(ctx context.Context, r credentials.Repository, key string, value []byte) error {
	if len(value) == 0 {
		return r.Clear(ctx, key)
	}
	return r.Save(ctx, key, value)
}
