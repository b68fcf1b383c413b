package session

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/spentra/internal/client/models"
	"github.com/dmitrijs2005/spentra/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spentra/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore_SeedsIdenticalSession(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	before := New(store, nil)
	tk, _ := before.Begin()
	require.NoError(t, before.Establish(ctx, tk, &models.User{ID: 7, Email: "a@b.com", Name: "Ann"}, tokens1()))
	tk.End()

	after := New(store, nil)
	require.NoError(t, after.Restore(ctx))

	assert.Equal(t, before.Snapshot(), after.Snapshot())
	assert.Equal(t, "tok1", after.AccessToken())
}

func TestRestore_EmptyStoreStartsLoggedOut(t *testing.T) {
	store := newMemStore()
	st := New(store, nil)

	require.NoError(t, st.Restore(context.Background()))
	assert.False(t, st.IsAuthenticated())
	assert.Equal(t, 0, store.updates, "nothing to clean up")
}

func TestRestore_MalformedUserTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	store.data[credentials.KeyUser] = []byte(`{"id":1,`)
	store.data[credentials.KeyAccess] = []byte("tok1")
	store.data[credentials.KeyRefresh] = []byte("tok2")

	var buf bytes.Buffer
	st := New(store, logging.New("debug", "text", &buf))

	require.NoError(t, st.Restore(context.Background()))

	snap := st.Snapshot()
	requireConsistent(t, snap)
	assert.False(t, snap.Authenticated())
	assert.Contains(t, buf.String(), "stored user is not valid JSON")

	for _, k := range []string{credentials.KeyUser, credentials.KeyAccess, credentials.KeyRefresh} {
		_, ok := store.get(k)
		assert.False(t, ok, "stale %s must be removed", k)
	}
}

func TestRestore_UserWithoutAccessIsDiscarded(t *testing.T) {
	store := newMemStore()
	store.data[credentials.KeyUser] = []byte(`{"id":1,"email":"a@b.com"}`)

	st := New(store, nil)
	require.NoError(t, st.Restore(context.Background()))

	assert.False(t, st.IsAuthenticated())
	_, ok := store.get(credentials.KeyUser)
	assert.False(t, ok)
}

func TestRestore_NullUserTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	store.data[credentials.KeyUser] = []byte(`null`)
	store.data[credentials.KeyAccess] = []byte("tok1")

	st := New(store, nil)
	require.NoError(t, st.Restore(context.Background()))
	assert.False(t, st.IsAuthenticated())
}

func TestRestore_ReadErrorReturned(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("io")

	st := New(store, nil)
	err := st.Restore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore session")
	assert.False(t, st.IsAuthenticated())
}
