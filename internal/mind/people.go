package mind

import (
	"strings"
	"time"
)

// Profile — per-character relationship model. Values are 0..1 and move in
// small clamped steps; heuristics only, no LLM in this path.
type Profile struct {
	Name          string  `json:"name"`
	Affinity      float64 `json:"affinity"`
	Trust         float64 `json:"trust"`
	Irritation    float64 `json:"irritation"`
	Vulnerability float64 `json:"vulnerability"`
	Summary       string  `json:"summary,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// ProfileUpdateKind classifies a message for relation updates.
type ProfileUpdateKind int

const (
	ProfileUpdateNeutral ProfileUpdateKind = iota
	ProfileUpdateWarm
	ProfileUpdateHostile
	ProfileUpdateAggressive
	ProfileUpdateVulnerable
)

// ClassifyMessageForProfile returns an update kind from content heuristics
// (caps, punctuation, politeness and distress vocabulary).
func ClassifyMessageForProfile(content string) ProfileUpdateKind {
	content = strings.TrimSpace(content)
	if content == "" {
		return ProfileUpdateNeutral
	}

	lower := strings.ToLower(content)
	if hasVulnerabilityMarker(lower) {
		return ProfileUpdateVulnerable
	}

	upper, total := 0, 0
	for _, r := range content {
		total++
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	if total > 0 && upper*100/total > 30 && total < 100 {
		return ProfileUpdateAggressive
	}
	if strings.HasSuffix(content, "!") && upper > 2 {
		return ProfileUpdateAggressive
	}

	if strings.Contains(lower, "thank") || strings.Contains(lower, "please") || strings.Contains(lower, "🙏") {
		return ProfileUpdateWarm
	}
	if strings.Contains(lower, "idiot") || strings.Contains(lower, "stupid") || strings.Contains(lower, "shut up") {
		return ProfileUpdateHostile
	}
	return ProfileUpdateNeutral
}

// ApplyProfileUpdate updates relation values. Delta is clamped to a small
// step so single messages never swing a relationship.
func ApplyProfileUpdate(p *Profile, kind ProfileUpdateKind, delta float64) *Profile {
	if p == nil {
		p = &Profile{}
	}
	if delta <= 0 || delta > 0.2 {
		delta = 0.08
	}
	out := *p
	switch kind {
	case ProfileUpdateWarm:
		out.Affinity = clamp01(out.Affinity + delta)
		out.Trust = clamp01(out.Trust + delta*0.5)
		out.Irritation = clamp01(out.Irritation - delta*0.5)
	case ProfileUpdateHostile:
		out.Irritation = clamp01(out.Irritation + delta)
		out.Trust = clamp01(out.Trust - delta*0.5)
	case ProfileUpdateAggressive:
		out.Irritation = clamp01(out.Irritation + delta*1.2)
		out.Trust = clamp01(out.Trust - delta)
	case ProfileUpdateVulnerable:
		out.Vulnerability = clamp01(out.Vulnerability + delta)
		out.Trust = clamp01(out.Trust + delta*0.5)
	default:
		// neutral: no movement
	}
	out.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return &out
}

// RelationshipLevel converts 0..1 to high/medium/low for prompts and
// decision reasoning. Never expose raw numbers downstream.
func RelationshipLevel(v float64) string {
	switch {
	case v > 0.7:
		return "high"
	case v >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// RelationshipTone summarizes a profile as one word for the generator.
func RelationshipTone(p Profile) string {
	switch {
	case p.Vulnerability > 0.6:
		return "protective"
	case p.Irritation > 0.6:
		return "guarded"
	case p.Affinity > 0.6:
		return "warm"
	default:
		return "neutral"
	}
}
