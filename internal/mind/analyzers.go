package mind

import (
	"fmt"
	"strings"
)

// Candidate — one vote from an analyzer: a proposed response type with a
// confidence and a human-readable piece of evidence.
type Candidate struct {
	Kind       ResponseType
	Confidence float64
	Evidence   string
	Addressee  string
}

// Analyzer is the capability interface for heuristic voters. Analyzers
// are independent, read cues only and never touch session state; keyword
// tables can be swapped for a learned classifier without touching the
// resolver.
type Analyzer interface {
	Name() string
	Analyze(cues *ContextualCues) []Candidate
}

// Fixed addressing confidences.
const (
	confDirectMention = 0.9
	confGroupAddress  = 0.8
	confService       = 0.6
	confImplicit      = 0.5
	confObserve       = 0.7
)

// AddressingAnalyzer votes straight from the addressing cues.
type AddressingAnalyzer struct{}

func (AddressingAnalyzer) Name() string { return "addressing" }

func (AddressingAnalyzer) Analyze(c *ContextualCues) []Candidate {
	var out []Candidate
	if len(c.Addressing.DirectMentions) > 0 {
		out = append(out, Candidate{
			Kind:       ResponseActiveDialogue,
			Confidence: confDirectMention,
			Evidence:   "direct mention of " + strings.Join(c.Addressing.DirectMentions, ", "),
			Addressee:  c.Speaker,
		})
	}
	if c.Addressing.GroupAddressing {
		out = append(out, Candidate{
			Kind:       ResponseGroupAcknowledgment,
			Confidence: confGroupAddress,
			Evidence:   "group address with no vulnerability language",
		})
	}
	if c.Addressing.ServiceRequest {
		out = append(out, Candidate{
			Kind:       ResponseSubtleService,
			Confidence: confService,
			Evidence:   "emote-only line, no dialogue",
			Addressee:  c.Speaker,
		})
	}
	if c.Addressing.ImplicitOpportunity {
		out = append(out, Candidate{
			Kind:       ResponseImplicitFollowUp,
			Confidence: confImplicit,
			Evidence:   "persona's previous reply addressed this speaker",
			Addressee:  c.Speaker,
		})
	}
	if c.Addressing.OtherInteraction {
		out = append(out, Candidate{
			Kind:       ResponseObserve,
			Confidence: confObserve,
			Evidence:   fmt.Sprintf("%s is speaking to %s", c.Speaker, c.Addressing.OtherTarget),
		})
	}
	return out
}

// EmotionalSupportAnalyzer scores vulnerability and intimacy language.
// It is independent of group-address detection: "everyone's expectations"
// inside a vulnerable statement counts toward support here even though
// the word "everyone" is present, while a vocative "good morning
// everyone" contributes nothing.
type EmotionalSupportAnalyzer struct {
	// MinScore gates firing; zero means the default.
	MinScore float64
}

const defaultEmotionalMinScore = 0.4

func (EmotionalSupportAnalyzer) Name() string { return "emotional_support" }

func (a EmotionalSupportAnalyzer) Analyze(c *ContextualCues) []Candidate {
	lower := strings.ToLower(c.Text)

	score := 0.0
	var hits []string
	for _, m := range vulnerabilityMarkers {
		if strings.Contains(lower, m) {
			hits = append(hits, m)
			score += 0.3
		}
	}
	if len(hits) == 0 {
		return nil
	}

	if c.Dynamics.EmotionalTone == "distressed" {
		score += 0.1
	}
	// A group word in a possessive/experiential frame is rhetorical and
	// strengthens the reading of personal distress.
	if word, vocative := groupAddressWord(c.Text); word != "" && !vocative {
		score += 0.1
	}
	if p := c.SpeakerProfile(); p.Vulnerability > 0.6 {
		score += 0.15
	}
	score = clamp01(score)

	minScore := a.MinScore
	if minScore <= 0 {
		minScore = defaultEmotionalMinScore
	}
	if score < minScore {
		return nil
	}

	return []Candidate{{
		Kind:       ResponseEmotionalSupport,
		Confidence: score,
		Evidence:   "vulnerability language: " + strings.Join(hits, "; "),
		Addressee:  c.Speaker,
	}}
}

// TechnicalExpertiseAnalyzer fires only when the active expertise set is
// non-empty AND the conversation theme overlaps it. A theme match without
// a declared domain never fires; incidental vocabulary is not expertise.
type TechnicalExpertiseAnalyzer struct{}

func (TechnicalExpertiseAnalyzer) Name() string { return "technical_expertise" }

func (TechnicalExpertiseAnalyzer) Analyze(c *ContextualCues) []Candidate {
	if len(c.Expertise) == 0 {
		return nil
	}
	var matched []string
	for _, theme := range c.Dynamics.Themes {
		for _, dom := range c.Expertise {
			if theme == dom {
				matched = append(matched, theme)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	conf := clamp01(0.7 + 0.05*float64(len(matched)-1))
	return []Candidate{{
		Kind:       ResponseTechnicalExplanation,
		Confidence: conf,
		Evidence:   "speaker topic overlaps expertise: " + strings.Join(matched, ", "),
		Addressee:  c.Speaker,
	}}
}

// DefaultAnalyzers returns the standard voter set in evaluation order.
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{
		AddressingAnalyzer{},
		EmotionalSupportAnalyzer{},
		TechnicalExpertiseAnalyzer{},
	}
}
