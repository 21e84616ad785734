package mind

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RoleplaySession — live state of one roleplay scene bound to a channel.
// Exactly one session is active per channel binding; starting a new one
// ends the prior one first. Safe for concurrent use, though callers are
// expected to serialize message submission per channel.
type RoleplaySession struct {
	ChannelID string

	mu                sync.RWMutex
	mode              SessionMode
	participants      map[string]Participant
	history           []ConversationTurn
	listening         bool
	lastAddressed     string
	startTurn         int
	lastResponseTurn  int
	lastCharacterTurn int

	log zerolog.Logger
}

// SessionSnapshot is an immutable copy of session state, used for cue
// building and persistence.
type SessionSnapshot struct {
	ChannelID         string                 `json:"channel_id"`
	Mode              SessionMode            `json:"mode"`
	Participants      map[string]Participant `json:"participants"`
	History           []ConversationTurn     `json:"history"`
	Listening         bool                   `json:"listening"`
	LastAddressed     string                 `json:"last_addressed,omitempty"`
	StartTurn         int                    `json:"start_turn"`
	LastResponseTurn  int                    `json:"last_response_turn"`
	LastCharacterTurn int                    `json:"last_character_turn"`
}

// NewRoleplaySession creates an inactive session for a channel.
func NewRoleplaySession(channelID string, log zerolog.Logger) *RoleplaySession {
	return &RoleplaySession{
		ChannelID:        channelID,
		participants:     make(map[string]Participant),
		lastResponseTurn: -1,
		log:              log.With().Str("channel", channelID).Logger(),
	}
}

// NormalizeName case-normalizes a character name for roster keys.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Start begins a session at the given turn, ending any active one first.
// directed marks a narrator scene-set; narratorNames join the roster as
// narrator-declared participants.
func (s *RoleplaySession) Start(turn int, directed bool, narratorNames []string) {
	s.mu.Lock()
	if s.mode != SessionInactive {
		s.log.Debug().Int("turn", turn).Msg("ending prior session before start")
		s.resetLocked()
	}
	if directed {
		s.mode = SessionDirectedActive
	} else {
		s.mode = SessionOrganicActive
	}
	s.startTurn = turn
	for _, n := range narratorNames {
		s.addParticipantLocked(n, SourceNarrator, turn)
	}
	s.mu.Unlock()
	s.log.Info().Int("turn", turn).Str("mode", s.Mode().String()).Msg("session started")
}

// AddParticipant upserts a participant by normalized name. Idempotent: a
// known name keeps its original source and first-seen turn.
func (s *RoleplaySession) AddParticipant(name string, source ParticipantSource, turn int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addParticipantLocked(name, source, turn)
}

func (s *RoleplaySession) addParticipantLocked(name string, source ParticipantSource, turn int) {
	key := NormalizeName(name)
	if key == "" || key == "unknown" {
		return
	}
	if _, ok := s.participants[key]; ok {
		return
	}
	s.participants[key] = Participant{Name: strings.TrimSpace(name), Source: source, FirstSeenTurn: turn}
}

// AddTurn appends to the turn history. Turn numbers must be strictly
// increasing; an out-of-order submission is dropped, not inserted.
func (s *RoleplaySession) AddTurn(speaker, message string, turn int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 && turn <= s.history[n-1].Turn {
		s.log.Warn().Int("turn", turn).Int("last", s.history[n-1].Turn).Msg("out-of-order turn dropped")
		return false
	}
	s.history = append(s.history, ConversationTurn{Turn: turn, Speaker: speaker, Message: message, At: time.Now()})
	return true
}

// SetListening toggles observation mode. Turn history is kept.
func (s *RoleplaySession) SetListening(on bool, reason string) {
	s.mu.Lock()
	s.listening = on
	s.mu.Unlock()
	s.log.Info().Bool("listening", on).Str("reason", reason).Msg("listening mode changed")
}

// Listening reports whether the persona is passively observing.
func (s *RoleplaySession) Listening() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listening
}

// SetLastAddressed records which character the persona last spoke to.
func (s *RoleplaySession) SetLastAddressed(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAddressed = NormalizeName(name)
}

// MarkResponseTurn records the turn of a persona reply.
func (s *RoleplaySession) MarkResponseTurn(turn int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResponseTurn = turn
}

// MarkCharacterTurn records the turn of a character message.
func (s *RoleplaySession) MarkCharacterTurn(turn int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCharacterTurn = turn
	_ = name // roster updates go through AddParticipant
}

// LastTurn returns the highest turn number the session has seen, across
// history and the response/character markers. Hosts seed their turn
// counters from this after a restore; zero for a fresh session.
func (s *RoleplaySession) LastTurn() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last := 0
	if s.lastResponseTurn > last {
		last = s.lastResponseTurn
	}
	if s.lastCharacterTurn > last {
		last = s.lastCharacterTurn
	}
	if n := len(s.history); n > 0 && s.history[n-1].Turn > last {
		last = s.history[n-1].Turn
	}
	return last
}

// ImplicitContinuation reports whether the persona's immediately prior
// reply addressed the current speaker: the last response turn directly
// precedes this turn and the addressing memory names the speaker.
func (s *RoleplaySession) ImplicitContinuation(speaker string, turn int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResponseTurn < 0 || s.lastAddressed == "" {
		return false
	}
	return s.lastResponseTurn == turn-1 && s.lastAddressed == NormalizeName(speaker)
}

// End resets the session to inactive. Idempotent.
func (s *RoleplaySession) End(reason string) {
	s.mu.Lock()
	wasActive := s.mode != SessionInactive
	s.resetLocked()
	s.mu.Unlock()
	if wasActive {
		s.log.Info().Str("reason", reason).Msg("session ended")
	}
}

func (s *RoleplaySession) resetLocked() {
	s.mode = SessionInactive
	s.participants = make(map[string]Participant)
	s.history = nil
	s.listening = false
	s.lastAddressed = ""
	s.startTurn = 0
	s.lastResponseTurn = -1
	s.lastCharacterTurn = 0
}

// Mode returns the current lifecycle state.
func (s *RoleplaySession) Mode() SessionMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Participants returns a copy of the roster.
func (s *RoleplaySession) Participants() map[string]Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Participant, len(s.participants))
	for k, v := range s.participants {
		out[k] = v
	}
	return out
}

// History returns a copy of the turn history (oldest first).
func (s *RoleplaySession) History() []ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConversationTurn, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot returns an immutable copy of the full session state.
func (s *RoleplaySession) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SessionSnapshot{
		ChannelID:         s.ChannelID,
		Mode:              s.mode,
		Participants:      make(map[string]Participant, len(s.participants)),
		History:           make([]ConversationTurn, len(s.history)),
		Listening:         s.listening,
		LastAddressed:     s.lastAddressed,
		StartTurn:         s.startTurn,
		LastResponseTurn:  s.lastResponseTurn,
		LastCharacterTurn: s.lastCharacterTurn,
	}
	for k, v := range s.participants {
		snap.Participants[k] = v
	}
	copy(snap.History, s.history)
	return snap
}

// Restore replaces session state from a snapshot (registry load path).
func (s *RoleplaySession) Restore(snap SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = snap.Mode
	s.participants = make(map[string]Participant, len(snap.Participants))
	for k, v := range snap.Participants {
		s.participants[k] = v
	}
	s.history = append([]ConversationTurn(nil), snap.History...)
	s.listening = snap.Listening
	s.lastAddressed = snap.LastAddressed
	s.startTurn = snap.StartTurn
	s.lastResponseTurn = snap.LastResponseTurn
	s.lastCharacterTurn = snap.LastCharacterTurn
}
