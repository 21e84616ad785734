package mind

import "time"

// SessionMode — lifecycle state of a channel's roleplay session.
type SessionMode int

const (
	SessionInactive SessionMode = iota
	SessionOrganicActive
	SessionDirectedActive
)

func (m SessionMode) String() string {
	switch m {
	case SessionOrganicActive:
		return "organic"
	case SessionDirectedActive:
		return "directed"
	default:
		return "inactive"
	}
}

// ParticipantSource records how a participant entered the roster.
type ParticipantSource string

const (
	SourceObserved ParticipantSource = "user-observed"
	SourceNarrator ParticipantSource = "narrator-declared"
)

// Participant — one character in the active scene. Keyed by normalized name.
type Participant struct {
	Name          string            `json:"name"`
	Source        ParticipantSource `json:"source"`
	FirstSeenTurn int               `json:"first_seen_turn"`
}

// ConversationTurn — one ordered contribution in the turn history.
type ConversationTurn struct {
	Turn    int       `json:"turn"`
	Speaker string    `json:"speaker"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ResponseType classifies what kind of reply (if any) fits the message.
type ResponseType int

const (
	ResponseNone ResponseType = iota
	ResponseActiveDialogue
	ResponseGroupAcknowledgment
	ResponseSubtleService
	ResponseImplicitFollowUp
	ResponseTechnicalExplanation
	ResponseEmotionalSupport
	// ResponseObserve is emitted by the resolver for interactions between
	// two other characters. The engine maps it to a none-decision.
	ResponseObserve
)

func (t ResponseType) String() string {
	switch t {
	case ResponseActiveDialogue:
		return "active_dialogue"
	case ResponseGroupAcknowledgment:
		return "group_acknowledgment"
	case ResponseSubtleService:
		return "subtle_service"
	case ResponseImplicitFollowUp:
		return "implicit_followup"
	case ResponseTechnicalExplanation:
		return "technical_explanation"
	case ResponseEmotionalSupport:
		return "emotional_support"
	case ResponseObserve:
		return "observe"
	default:
		return "none"
	}
}

// ChannelContext describes where a message arrived.
type ChannelContext struct {
	ChannelID string `json:"channel_id"`
	IsThread  bool   `json:"is_thread"`
	IsDM      bool   `json:"is_dm"`
	Type      string `json:"type,omitempty"`
}

// Incoming is one message submitted to the decision engine. Callers must
// submit messages in arrival order per channel; turn numbers drive the
// adjacency rules.
type Incoming struct {
	Message string
	Channel ChannelContext
	Turn    int
}

// ResponseDecision is the engine's verdict for one message. Reasoning is
// always populated; it feeds audit logs and tests.
type ResponseDecision struct {
	ShouldRespond    bool
	Type             ResponseType
	Confidence       float64
	Reasoning        string
	Style            string
	Tone             string
	Approach         string
	AddressCharacter string
	RelationshipTone string
}

// AddressingContext — who the message seems directed at.
type AddressingContext struct {
	DirectMentions      []string
	GroupAddressing     bool
	ServiceRequest      bool
	ImplicitOpportunity bool
	OtherInteraction    bool
	OtherTarget         string
}

// ConversationDynamics — theme, tone and intensity read from the message.
type ConversationDynamics struct {
	Themes        []string
	EmotionalTone string
	Intensity     float64
}

// ContextualCues is the structured bundle the analyzers vote on. Rebuilt
// per message, never persisted.
type ContextualCues struct {
	Speaker         string
	Text            string
	RawMessage      string
	Addressing      AddressingContext
	Dynamics        ConversationDynamics
	KnownCharacters map[string]Profile
	Expertise       []string
	PersonalityMode string
	SessionMode     SessionMode
	SceneControl    string
	Turn            int
	IsDM            bool
}

// SpeakerProfile returns the relationship profile of the current speaker,
// or a zero profile when the speaker is unknown.
func (c *ContextualCues) SpeakerProfile() Profile {
	if p, ok := c.KnownCharacters[NormalizeName(c.Speaker)]; ok {
		return p
	}
	return Profile{Name: c.Speaker}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
