package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/repository"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateUsesUUID(t *testing.T) {
	m, _ := newTestManager(&fakeServices{})

	a, err := m.Create(context.Background())
	require.NoError(t, err)
	b, err := m.Create(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.Key(), b.Key())
	_, err = uuid.Parse(a.Key())
	assert.NoError(t, err)
	assert.Equal(t, 9, a.Snapshot().GameweekID, "default gameweek")
}

func TestManager_GetIsStable(t *testing.T) {
	m, _ := newTestManager(&fakeServices{})
	a, err := m.Get(context.Background(), "42")
	require.NoError(t, err)
	b, err := m.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestManager_FindRevivesPersistedSession(t *testing.T) {
	svc := &fakeServices{}
	m, store := newTestManager(svc)
	ctx := context.Background()

	_, err := m.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownSession)

	s, err := m.Get(ctx, "chat-7")
	require.NoError(t, err)
	fill(t, s)

	// A second manager over the same store plays the part of a restart.
	restarted := NewManager(svc, fakeDirectory{idx: s.dir.(fakeDirectory).idx}, store, 9)
	revived, err := restarted.Find(ctx, "chat-7")
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot().Fingerprint, revived.Snapshot().Fingerprint)
	assert.Equal(t, models.RosterSize, revived.Snapshot().Size())
}

func TestManager_MalformedDocumentIsDiscarded(t *testing.T) {
	m, store := newTestManager(&fakeServices{})
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "bad", []byte(`{"backcourt": "oops"}`)))

	s, err := m.Get(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Snapshot().Size())

	_, err = store.Load(ctx, "bad")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestManager_RestoreIsTolerant(t *testing.T) {
	m, store := newTestManager(&fakeServices{})
	ctx := context.Background()
	doc := `{"backcourt": [{"id": 1}, null, {"id": 99}, {"id": 6}], "frontcourt": [{"id": 7}]}`
	require.NoError(t, store.Save(ctx, "k", []byte(doc)))

	s, err := m.Get(ctx, "k")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.Backcourt[0])
	assert.Equal(t, 1, snap.Backcourt[0].ID)
	assert.Nil(t, snap.Backcourt[2], "unknown id")
	assert.Nil(t, snap.Backcourt[3], "forward cannot sit in the backcourt")
	require.NotNil(t, snap.Frontcourt[0])
	assert.Equal(t, 7, snap.Frontcourt[0].ID)
}

func TestManager_Delete(t *testing.T) {
	m, store := newTestManager(&fakeServices{})
	ctx := context.Background()

	s, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, s.Assign(ctx, roster.Backcourt, 0, 1))

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = store.Load(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = m.Find(ctx, "k")
	assert.ErrorIs(t, err, ErrUnknownSession)

	assert.ErrorIs(t, m.Delete(ctx, "k"), ErrUnknownSession)
}

func TestManager_EvictIdle(t *testing.T) {
	m, _ := newTestManager(&fakeServices{})
	ctx := context.Background()
	clock := time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	empty, err := m.Create(ctx)
	require.NoError(t, err)
	full, err := m.Get(ctx, "chat-1")
	require.NoError(t, err)
	fill(t, full)

	clock = clock.Add(2 * time.Hour)
	_, err = m.Get(ctx, "chat-2")
	require.NoError(t, err)

	assert.Equal(t, 2, m.EvictIdle(time.Hour))
	assert.Equal(t, 1, m.Len())

	_, err = m.Find(ctx, empty.Key())
	assert.ErrorIs(t, err, ErrUnknownSession, "nothing was persisted for an empty roster")

	revived, err := m.Find(ctx, "chat-1")
	require.NoError(t, err)
	assert.NotSame(t, full, revived)
	assert.Equal(t, full.Snapshot().Fingerprint, revived.Snapshot().Fingerprint)
}

func TestManager_EvictIdleKeepsRecentlyUsed(t *testing.T) {
	m, _ := newTestManager(&fakeServices{})
	ctx := context.Background()
	clock := time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	s, err := m.Get(ctx, "chat-1")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	again, err := m.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Same(t, s, again)

	assert.Equal(t, 0, m.EvictIdle(time.Hour))
	assert.Equal(t, 1, m.Len())
}
