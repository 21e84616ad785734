package mind

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryPersister is a map-backed Persister for registry tests.
type memoryPersister struct {
	sessions map[string]SessionSnapshot
	profiles map[string]map[string]Profile
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{
		sessions: make(map[string]SessionSnapshot),
		profiles: make(map[string]map[string]Profile),
	}
}

func (m *memoryPersister) SaveSession(snap SessionSnapshot) { m.sessions[snap.ChannelID] = snap }

func (m *memoryPersister) LoadSession(channelID string) (SessionSnapshot, bool) {
	s, ok := m.sessions[channelID]
	return s, ok
}

func (m *memoryPersister) DeleteSession(channelID string) { delete(m.sessions, channelID) }

func (m *memoryPersister) SaveProfiles(channelID string, profiles map[string]Profile) {
	m.profiles[channelID] = profiles
}

func (m *memoryPersister) LoadProfiles(channelID string) (map[string]Profile, bool) {
	p, ok := m.profiles[channelID]
	return p, ok
}

func TestSessionRestoredOnFirstUse(t *testing.T) {
	store := newMemoryPersister()
	store.sessions["c1"] = SessionSnapshot{
		ChannelID:        "c1",
		Mode:             SessionOrganicActive,
		LastAddressed:    "alice",
		LastResponseTurn: 3,
	}
	store.profiles["c1"] = map[string]Profile{"alice": {Name: "Alice", Affinity: 0.5}}

	r := NewRegistry(store, zerolog.Nop())
	s := r.Session("c1")
	assert.Equal(t, SessionOrganicActive, s.Mode())
	assert.True(t, s.ImplicitContinuation("Alice", 4))

	p := r.Profile("c1", "Alice")
	assert.InDelta(t, 0.5, p.Affinity, 1e-9)
}

func TestSessionCreatedFreshWithoutStore(t *testing.T) {
	r := NewRegistry(nil, zerolog.Nop())
	s := r.Session("c1")
	assert.Equal(t, SessionInactive, s.Mode())
	assert.Same(t, s, r.Session("c1"), "one live session per channel")
}

func TestSaveSessionDeletesWhenInactive(t *testing.T) {
	store := newMemoryPersister()
	r := NewRegistry(store, zerolog.Nop())

	s := r.Session("c1")
	s.Start(1, false, nil)
	r.SaveSession("c1")
	require.Contains(t, store.sessions, "c1")

	s.End("test")
	r.SaveSession("c1")
	assert.NotContains(t, store.sessions, "c1")
}

func TestProfilePersistedOnSet(t *testing.T) {
	store := newMemoryPersister()
	r := NewRegistry(store, zerolog.Nop())

	r.SetProfile("c1", Profile{Name: "Alice", Trust: 0.3})
	require.Contains(t, store.profiles, "c1")
	assert.InDelta(t, 0.3, store.profiles["c1"]["alice"].Trust, 1e-9)

	// Unknown and unnamed speakers are never stored.
	r.SetProfile("c1", Profile{Name: "unknown"})
	r.SetProfile("c1", Profile{})
	assert.Len(t, store.profiles["c1"], 1)
}

func TestProfileUnknownCharacterIsZero(t *testing.T) {
	r := NewRegistry(nil, zerolog.Nop())
	p := r.Profile("c1", "Nobody")
	assert.Equal(t, "Nobody", p.Name)
	assert.Zero(t, p.Affinity)
}
