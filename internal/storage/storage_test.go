package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nereth/stagemind/internal/mind"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, filepath.Join(t.TempDir(), "state.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = s.Close()
	})
	return s
}

func sampleSnapshot(channelID string) mind.SessionSnapshot {
	return mind.SessionSnapshot{
		ChannelID: channelID,
		Mode:      mind.SessionDirectedActive,
		Participants: map[string]mind.Participant{
			"alice": {Name: "Alice", Source: mind.SourceNarrator, FirstSeenTurn: 1},
		},
		History: []mind.ConversationTurn{
			{Turn: 1, Speaker: "Alice", Message: "hello"},
		},
		LastAddressed:    "alice",
		StartTurn:        1,
		LastResponseTurn: 2,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, ok := s.LoadSession("c1")
	assert.False(t, ok)

	want := sampleSnapshot("c1")
	s.SaveSession(want)

	got, ok := s.LoadSession("c1")
	require.True(t, ok)
	assert.Equal(t, want.Mode, got.Mode)
	assert.Equal(t, want.LastAddressed, got.LastAddressed)
	assert.Equal(t, want.LastResponseTurn, got.LastResponseTurn)
	require.Contains(t, got.Participants, "alice")
	assert.Equal(t, "Alice", got.Participants["alice"].Name)
	require.Len(t, got.History, 1)
	assert.Equal(t, "hello", got.History[0].Message)
}

func TestDeleteSession(t *testing.T) {
	s := newTestStorage(t)

	s.SaveSession(sampleSnapshot("c1"))
	s.DeleteSession("c1")

	_, ok := s.LoadSession("c1")
	assert.False(t, ok)

	// Deleting a missing key is harmless.
	s.DeleteSession("never-existed")
}

func TestProfilesRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, ok := s.LoadProfiles("c1")
	assert.False(t, ok)

	want := map[string]mind.Profile{
		"alice": {Name: "Alice", Affinity: 0.4, Trust: 0.2},
		"bran":  {Name: "Bran", Irritation: 0.7},
	}
	s.SaveProfiles("c1", want)

	got, ok := s.LoadProfiles("c1")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.4, got["alice"].Affinity, 1e-9)
	assert.InDelta(t, 0.7, got["bran"].Irritation, 1e-9)
}

func TestChannelsAreIsolated(t *testing.T) {
	s := newTestStorage(t)

	s.SaveSession(sampleSnapshot("c1"))

	_, ok := s.LoadSession("c2")
	assert.False(t, ok)
}

func TestReopenRestoresState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	s.SaveSession(sampleSnapshot("c1"))
	cancel()
	require.NoError(t, s.Close())

	ctx2, cancel2 := context.WithCancel(context.Background())
	reopened, err := New(ctx2, path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel2()
		_ = reopened.Close()
	})

	got, ok := reopened.LoadSession("c1")
	require.True(t, ok)
	assert.Equal(t, mind.SessionDirectedActive, got.Mode)
	assert.Equal(t, "alice", got.LastAddressed)
}

func TestCreatesNestedStorageDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "state.json")

	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = s.Close()
	})

	s.SaveSession(sampleSnapshot("c1"))
	_, ok := s.LoadSession("c1")
	assert.True(t, ok)
}
