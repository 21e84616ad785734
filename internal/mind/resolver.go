package mind

import (
	"fmt"
	"sort"
	"strings"
)

// The precedence order is data, not code: the resolver walks this table
// top to bottom and the first tier with a surviving candidate wins.
// Narrator directives never reach the resolver (terminal earlier), so the
// table starts at emotional support.
type tierRule struct {
	Tier int
	Kind ResponseType
}

var defaultPriority = []tierRule{
	{2, ResponseEmotionalSupport},
	{3, ResponseActiveDialogue},
	{4, ResponseTechnicalExplanation},
	{5, ResponseGroupAcknowledgment},
	{6, ResponseSubtleService},
	{7, ResponseImplicitFollowUp},
	{8, ResponseObserve},
}

// ResolverConfig exposes the tuning knobs of conflict resolution.
type ResolverConfig struct {
	// EmpathyOverride: an emotional-support candidate at or above this
	// confidence always beats a group-address candidate, whatever the
	// group confidence. Below it, with a group candidate competing, the
	// support candidate is demoted. Personal distress must never be
	// drowned out by superficially similar group-language patterns.
	EmpathyOverride float64
}

// DefaultResolverConfig returns the shipped tuning.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{EmpathyOverride: 0.6}
}

// Resolution is the resolver's output for one message.
type Resolution struct {
	Kind       ResponseType
	Confidence float64
	Reasoning  string
	Winner     *Candidate
}

// ConflictResolver picks one winner from competing analyzer votes using
// the tier table, confidence tie-breaks within a tier, and the empathy
// override between support and group signals.
type ConflictResolver struct {
	cfg      ResolverConfig
	priority []tierRule
}

// NewConflictResolver builds a resolver; zero config fields fall back to
// defaults.
func NewConflictResolver(cfg ResolverConfig) *ConflictResolver {
	if cfg.EmpathyOverride <= 0 {
		cfg.EmpathyOverride = DefaultResolverConfig().EmpathyOverride
	}
	return &ConflictResolver{cfg: cfg, priority: defaultPriority}
}

// Resolve turns candidates into one resolution. No candidates resolves to
// none — silence, not an error.
func (r *ConflictResolver) Resolve(cands []Candidate) Resolution {
	if len(cands) == 0 {
		return Resolution{Kind: ResponseNone, Reasoning: "no analyzer fired"}
	}

	// Best candidate per kind (confidence tie-break within a tier).
	best := make(map[ResponseType]Candidate, len(cands))
	for _, c := range cands {
		if cur, ok := best[c.Kind]; !ok || c.Confidence > cur.Confidence {
			best[c.Kind] = c
		}
	}

	// Empathy override gate.
	if sup, hasSup := best[ResponseEmotionalSupport]; hasSup {
		if _, hasGroup := best[ResponseGroupAcknowledgment]; hasGroup && sup.Confidence < r.cfg.EmpathyOverride {
			delete(best, ResponseEmotionalSupport)
		}
	}

	for _, rule := range r.priority {
		c, ok := best[rule.Kind]
		if !ok {
			continue
		}
		return Resolution{
			Kind:       c.Kind,
			Confidence: c.Confidence,
			Reasoning:  r.explain(rule.Tier, c, best),
			Winner:     &c,
		}
	}
	return Resolution{Kind: ResponseNone, Reasoning: "no candidate matched a priority tier"}
}

func (r *ConflictResolver) explain(tier int, winner Candidate, best map[ResponseType]Candidate) string {
	var losers []string
	kinds := make([]ResponseType, 0, len(best))
	for k := range best {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		if k == winner.Kind {
			continue
		}
		losers = append(losers, fmt.Sprintf("%s(%.2f)", k, best[k].Confidence))
	}
	s := fmt.Sprintf("%s wins at tier %d (%.2f): %s", winner.Kind, tier, winner.Confidence, winner.Evidence)
	if len(losers) > 0 {
		s += "; outranked " + strings.Join(losers, ", ")
	}
	return s
}
