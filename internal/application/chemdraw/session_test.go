package chemdraw

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/testutil"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

func newTestStore(ttl time.Duration) *SessionStore {
	return NewSessionStore(Dependencies{
		Generation: new(testutil.MockGenerationService),
		Correction: new(testutil.MockCorrectionService),
	}, ttl)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	s := newTestStore(time.Hour)

	c := s.Create()
	require.NotEmpty(t, c.ID())
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	s.Delete(c.ID())
	assert.Equal(t, 0, s.Len())
	_, err = s.Get(c.ID())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
	assert.True(t, errors.IsNotFound(err))

	s.Delete("unknown")
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	s := newTestStore(time.Hour)
	c := s.Create()

	same, created := s.GetOrCreate(c.ID())
	assert.False(t, created)
	assert.Same(t, c, same)

	fresh, created := s.GetOrCreate("gone")
	assert.True(t, created)
	assert.NotEqual(t, c.ID(), fresh.ID())

	_, created = s.GetOrCreate("")
	assert.True(t, created)
	assert.Equal(t, 3, s.Len())
}

func TestSessionStore_SessionsAreIndependent(t *testing.T) {
	s := newTestStore(time.Hour)
	a, b := s.Create(), s.Create()

	a.SetFormula("H2O")
	b.SetFormula("NaCl")

	assert.Equal(t, "H2O", a.View().Formula)
	assert.Equal(t, "NaCl", b.View().Formula)
}

func TestSessionStore_Evict(t *testing.T) {
	s := newTestStore(2 * time.Hour)
	idle := s.Create()
	s.Create()

	assert.Equal(t, 0, s.Evict())

	s.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	assert.Equal(t, 2, s.Evict())
	assert.Equal(t, 0, s.Len())
	_, err := s.Get(idle.ID())
	assert.Error(t, err)
}

func TestSessionStore_EvictDisabled(t *testing.T) {
	s := newTestStore(0)
	s.Create()
	s.now = func() time.Time { return time.Now().Add(100 * time.Hour) }

	assert.Equal(t, 0, s.Evict())
	assert.Equal(t, 1, s.Len())
}

func TestSessionStore_RunStopsWithContext(t *testing.T) {
	s := newTestStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10*time.Millisecond) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

//Personal.AI order the ending
