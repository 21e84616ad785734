package mind

import (
	"sync"

	"github.com/rs/zerolog"
)

// Persister saves and restores registry state across restarts. The
// concrete implementation lives in internal/storage; a nil Persister
// keeps everything in memory.
type Persister interface {
	SaveSession(snap SessionSnapshot)
	LoadSession(channelID string) (SessionSnapshot, bool)
	DeleteSession(channelID string)
	SaveProfiles(channelID string, profiles map[string]Profile)
	LoadProfiles(channelID string) (map[string]Profile, bool)
}

// Registry owns one RoleplaySession per channel binding plus the
// relationship profiles that outlive individual scenes. Constructed and
// owned by the host process and handed to the engine — no package-level
// state, so tests get full isolation.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*RoleplaySession
	profiles map[string]map[string]Profile // channel -> normalized name -> profile
	store    Persister
	log      zerolog.Logger
}

// NewRegistry creates a registry. store may be nil (memory only).
func NewRegistry(store Persister, log zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*RoleplaySession),
		profiles: make(map[string]map[string]Profile),
		store:    store,
		log:      log.With().Str("component", "registry").Logger(),
	}
}

// Session returns the channel's session, creating (and restoring from the
// persister, when available) on first use.
func (r *Registry) Session(channelID string) *RoleplaySession {
	r.mu.RLock()
	s := r.sessions[channelID]
	r.mu.RUnlock()
	if s != nil {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s = r.sessions[channelID]; s != nil {
		return s
	}
	s = NewRoleplaySession(channelID, r.log)
	if r.store != nil {
		if snap, ok := r.store.LoadSession(channelID); ok {
			s.Restore(snap)
			r.log.Info().Str("channel", channelID).Str("mode", snap.Mode.String()).Msg("session restored")
		}
		if profiles, ok := r.store.LoadProfiles(channelID); ok {
			r.profiles[channelID] = profiles
		}
	}
	r.sessions[channelID] = s
	return s
}

// Profile returns a copy of one character's relationship profile for a
// channel. Unknown characters come back as a zero profile with the name
// set.
func (r *Registry) Profile(channelID, name string) Profile {
	key := NormalizeName(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if chProfiles, ok := r.profiles[channelID]; ok {
		if p, ok := chProfiles[key]; ok {
			return p
		}
	}
	return Profile{Name: name}
}

// Profiles returns a copy of all profiles known for a channel.
func (r *Registry) Profiles(channelID string) map[string]Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Profile, len(r.profiles[channelID]))
	for k, v := range r.profiles[channelID] {
		out[k] = v
	}
	return out
}

// SetProfile stores a character's profile and persists the channel's set.
func (r *Registry) SetProfile(channelID string, p Profile) {
	key := NormalizeName(p.Name)
	if key == "" || key == "unknown" {
		return
	}
	r.mu.Lock()
	if r.profiles[channelID] == nil {
		r.profiles[channelID] = make(map[string]Profile)
	}
	r.profiles[channelID][key] = p
	var snapshot map[string]Profile
	if r.store != nil {
		snapshot = make(map[string]Profile, len(r.profiles[channelID]))
		for k, v := range r.profiles[channelID] {
			snapshot[k] = v
		}
	}
	r.mu.Unlock()

	if r.store != nil {
		r.store.SaveProfiles(channelID, snapshot)
	}
}

// SaveSession persists a channel's current session snapshot. An inactive
// session deletes the stored snapshot instead.
func (r *Registry) SaveSession(channelID string) {
	if r.store == nil {
		return
	}
	r.mu.RLock()
	s := r.sessions[channelID]
	r.mu.RUnlock()
	if s == nil {
		return
	}
	snap := s.Snapshot()
	if snap.Mode == SessionInactive {
		r.store.DeleteSession(channelID)
		return
	}
	r.store.SaveSession(snap)
}

// ChannelIDs lists channels with live sessions (diagnostics).
func (r *Registry) ChannelIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
