package mind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoCandidates(t *testing.T) {
	r := NewConflictResolver(DefaultResolverConfig())
	res := r.Resolve(nil)
	assert.Equal(t, ResponseNone, res.Kind)
	assert.Nil(t, res.Winner)
	assert.NotEmpty(t, res.Reasoning)
}

func TestResolvePriorityOrder(t *testing.T) {
	r := NewConflictResolver(DefaultResolverConfig())

	// A confident support candidate outranks everything, including a
	// higher-confidence direct mention.
	res := r.Resolve([]Candidate{
		{Kind: ResponseActiveDialogue, Confidence: 0.9, Evidence: "mention"},
		{Kind: ResponseEmotionalSupport, Confidence: 0.7, Evidence: "distress"},
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
	})
	assert.Equal(t, ResponseEmotionalSupport, res.Kind)
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)

	// Without support, direct dialogue beats group.
	res = r.Resolve([]Candidate{
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
		{Kind: ResponseActiveDialogue, Confidence: 0.9, Evidence: "mention"},
	})
	assert.Equal(t, ResponseActiveDialogue, res.Kind)

	// Observe is the last resort tier.
	res = r.Resolve([]Candidate{
		{Kind: ResponseObserve, Confidence: 0.7, Evidence: "others talking"},
	})
	assert.Equal(t, ResponseObserve, res.Kind)
}

func TestEmpathyOverrideGate(t *testing.T) {
	r := NewConflictResolver(ResolverConfig{EmpathyOverride: 0.6})

	// At the threshold the support candidate survives and wins.
	res := r.Resolve([]Candidate{
		{Kind: ResponseEmotionalSupport, Confidence: 0.6, Evidence: "distress"},
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
	})
	assert.Equal(t, ResponseEmotionalSupport, res.Kind)

	// Below it, with a group candidate competing, support is demoted and
	// the group acknowledgment wins.
	res = r.Resolve([]Candidate{
		{Kind: ResponseEmotionalSupport, Confidence: 0.45, Evidence: "mild distress"},
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
	})
	assert.Equal(t, ResponseGroupAcknowledgment, res.Kind)

	// No group candidate, no demotion: weak support still wins its tier.
	res = r.Resolve([]Candidate{
		{Kind: ResponseEmotionalSupport, Confidence: 0.45, Evidence: "mild distress"},
		{Kind: ResponseSubtleService, Confidence: 0.6, Evidence: "emote"},
	})
	assert.Equal(t, ResponseEmotionalSupport, res.Kind)
}

func TestResolveConfidenceTieBreakWithinKind(t *testing.T) {
	r := NewConflictResolver(DefaultResolverConfig())
	res := r.Resolve([]Candidate{
		{Kind: ResponseActiveDialogue, Confidence: 0.6, Evidence: "weak"},
		{Kind: ResponseActiveDialogue, Confidence: 0.9, Evidence: "strong"},
	})
	require.NotNil(t, res.Winner)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	assert.Equal(t, "strong", res.Winner.Evidence)
}

func TestResolveReasoningNamesLosers(t *testing.T) {
	r := NewConflictResolver(DefaultResolverConfig())
	res := r.Resolve([]Candidate{
		{Kind: ResponseActiveDialogue, Confidence: 0.9, Evidence: "mention"},
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
	})
	assert.Contains(t, res.Reasoning, "active_dialogue")
	assert.Contains(t, res.Reasoning, "outranked")
	assert.Contains(t, res.Reasoning, "group_acknowledgment")
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	r := NewConflictResolver(ResolverConfig{})
	res := r.Resolve([]Candidate{
		{Kind: ResponseEmotionalSupport, Confidence: 0.59, Evidence: "distress"},
		{Kind: ResponseGroupAcknowledgment, Confidence: 0.8, Evidence: "greeting"},
	})
	assert.Equal(t, ResponseGroupAcknowledgment, res.Kind, "default override threshold must apply")
}
