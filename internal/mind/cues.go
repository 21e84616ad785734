package mind

import (
	"regexp"
	"strings"
	"sync"
)

// CueBuilder turns (raw message, session snapshot, turn number) into
// ContextualCues. Pure with respect to session state: it reads the
// snapshot, mutates nothing.
type CueBuilder struct {
	persona   string
	expertise []string

	mentionOnce sync.Once
	mentionRe   *regexp.Regexp
}

var speakerTagRe = regexp.MustCompile(`^\[([^\[\]]+)\]\s*(.*)$`)

// NewCueBuilder creates a builder for one persona and its global
// expertise domain list.
func NewCueBuilder(persona string, expertise []string) *CueBuilder {
	return &CueBuilder{persona: persona, expertise: expertise}
}

// Build derives cues for one message. The snapshot should already include
// the message as its latest turn; implicit-continuation is computed from
// the snapshot's response/addressing memory.
func (b *CueBuilder) Build(message string, snap SessionSnapshot, profiles map[string]Profile, ch ChannelContext, turn int) *ContextualCues {
	speaker, text := SplitSpeaker(message)

	cues := &ContextualCues{
		Speaker:         speaker,
		Text:            text,
		RawMessage:      message,
		KnownCharacters: profiles,
		SessionMode:     snap.Mode,
		SceneControl:    snap.Mode.String(),
		Turn:            turn,
		IsDM:            ch.IsDM,
	}
	if profiles == nil {
		cues.KnownCharacters = map[string]Profile{}
	}

	lower := strings.ToLower(text)
	vulnerable := hasVulnerabilityMarker(lower)

	// Addressing signals.
	if b.mentionPattern().MatchString(text) {
		cues.Addressing.DirectMentions = append(cues.Addressing.DirectMentions, b.persona)
	}
	if ch.IsDM && len(cues.Addressing.DirectMentions) == 0 {
		// A DM is always directed at the persona.
		cues.Addressing.DirectMentions = append(cues.Addressing.DirectMentions, b.persona)
	}
	if _, vocative := groupAddressWord(text); vocative && !vulnerable {
		cues.Addressing.GroupAddressing = true
	}
	if isEmoteOnly(text) {
		cues.Addressing.ServiceRequest = true
	}
	cues.Addressing.ImplicitOpportunity = implicitFromSnapshot(snap, speaker, turn)
	if target := b.otherPairTarget(snap, speaker, text); target != "" {
		cues.Addressing.OtherInteraction = true
		cues.Addressing.OtherTarget = target
	}

	// Conversation dynamics.
	cues.Dynamics.Themes = MessageThemes(text)
	cues.Dynamics.EmotionalTone = EmotionalTone(text)
	cues.Dynamics.Intensity = MessageIntensity(text)

	// Expertise: message themes intersected with the persona's global
	// domain list, never per-character.
	for _, theme := range cues.Dynamics.Themes {
		for _, dom := range b.expertise {
			if theme == dom {
				cues.Expertise = append(cues.Expertise, theme)
				break
			}
		}
	}

	cues.PersonalityMode = personalityMode(cues)
	return cues
}

// SplitSpeaker extracts the speaker from the bracketed-name convention
// ("[Alice] dialogue..."), falling back to "unknown".
func SplitSpeaker(message string) (speaker, text string) {
	msg := strings.TrimSpace(message)
	if m := speakerTagRe.FindStringSubmatch(msg); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" && !strings.EqualFold(name, "DIRECTIVE") {
			return name, strings.TrimSpace(m[2])
		}
	}
	return "unknown", msg
}

func (b *CueBuilder) mentionPattern() *regexp.Regexp {
	b.mentionOnce.Do(func() {
		b.mentionRe = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b.persona) + `\b`)
	})
	return b.mentionRe
}

// implicitFromSnapshot applies the adjacency rule: the persona's last
// reply was the immediately preceding turn and it addressed this speaker.
func implicitFromSnapshot(snap SessionSnapshot, speaker string, turn int) bool {
	if snap.LastResponseTurn < 0 || snap.LastAddressed == "" {
		return false
	}
	return snap.LastResponseTurn == turn-1 && snap.LastAddressed == NormalizeName(speaker)
}

// otherPairTarget reports a known participant (not the persona) whom a
// known speaker addresses by name.
func (b *CueBuilder) otherPairTarget(snap SessionSnapshot, speaker, text string) string {
	speakerKey := NormalizeName(speaker)
	if speakerKey == "unknown" || strings.EqualFold(speaker, b.persona) {
		return ""
	}
	if _, known := snap.Participants[speakerKey]; !known {
		return ""
	}
	if b.mentionPattern().MatchString(text) {
		return ""
	}
	lower := strings.ToLower(text)
	for key, part := range snap.Participants {
		if key == speakerKey || strings.EqualFold(part.Name, b.persona) {
			continue
		}
		if containsWord(lower, strings.ToLower(part.Name)) {
			return part.Name
		}
	}
	return ""
}

// personalityMode is a coarse hint for the generator: which register the
// persona should be in before any response-type styling applies.
func personalityMode(c *ContextualCues) string {
	switch {
	case c.Dynamics.EmotionalTone == "distressed":
		return "caring"
	case len(c.Expertise) > 0:
		return "professional"
	case c.Addressing.ServiceRequest:
		return "attentive"
	default:
		return "social"
	}
}
