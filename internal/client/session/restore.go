package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/client/repositories/credentials"
)

// Restore seeds the state from the store. It is meant to run once, before
// any consumer reads the state.
//
// A malformed user record counts as absent. Unless both a user and an
// access token are found the session starts logged out, and any leftover
// keys are removed so the store never holds half a session. Only read
// errors are returned.
func (s *State) Restore(ctx context.Context) error {
	rawUser, err := s.store.Load(ctx, credentials.KeyUser)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	access, err := s.store.Load(ctx, credentials.KeyAccess)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	refresh, err := s.store.Load(ctx, credentials.KeyRefresh)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	user := s.decodeUser(ctx, rawUser)
	tokens := &models.TokenPair{Access: string(access), Refresh: string(refresh)}

	s.mu.Lock()
	if user != nil && tokens.Valid() {
		s.user, s.tokens = user, tokens
		s.log.Info(ctx, "session restored", "email", user.Email)
	} else {
		s.user, s.tokens = nil, nil
		if rawUser != nil || access != nil || refresh != nil {
			s.log.Warn(ctx, "discarding incomplete stored session",
				"has_user", user != nil, "has_access", len(access) > 0, "has_refresh", len(refresh) > 0)
			if err := s.persist(context.WithoutCancel(ctx), nil, nil); err != nil {
				s.log.Error(ctx, "failed to clear incomplete session", "error", err)
			}
		}
	}
	v, snap := s.changedLocked()
	s.mu.Unlock()

	s.notify(v, snap)
	return nil
}

func (s *State) decodeUser(ctx context.Context, raw []byte) *models.User {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn(ctx, "stored user is not valid JSON, treating as absent", "error", err)
		return nil
	}
	return &u
}
