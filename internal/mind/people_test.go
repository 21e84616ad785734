package mind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMessageForProfile(t *testing.T) {
	tests := []struct {
		text string
		want ProfileUpdateKind
	}{
		{"", ProfileUpdateNeutral},
		{"the weather held up today", ProfileUpdateNeutral},
		{"thank you, truly", ProfileUpdateWarm},
		{"could you please check the charts", ProfileUpdateWarm},
		{"you absolute idiot", ProfileUpdateHostile},
		{"STOP TALKING RIGHT NOW", ProfileUpdateAggressive},
		{"I'm afraid I can't keep doing this", ProfileUpdateVulnerable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMessageForProfile(tt.text), tt.text)
	}
}

func TestApplyProfileUpdateClampsSteps(t *testing.T) {
	p := Profile{Name: "Alice", Affinity: 0.97}
	out := ApplyProfileUpdate(&p, ProfileUpdateWarm, 0.08)
	assert.InDelta(t, 1.0, out.Affinity, 1e-9)
	assert.InDelta(t, 0.97, p.Affinity, 1e-9, "input profile must not be mutated")

	// Out-of-range deltas fall back to the default step.
	out = ApplyProfileUpdate(&Profile{}, ProfileUpdateWarm, 5.0)
	assert.InDelta(t, 0.08, out.Affinity, 1e-9)

	out = ApplyProfileUpdate(&Profile{Trust: 0.5}, ProfileUpdateVulnerable, 0.08)
	assert.InDelta(t, 0.08, out.Vulnerability, 1e-9)
	assert.InDelta(t, 0.54, out.Trust, 1e-9)
}

func TestRelationshipLevelBands(t *testing.T) {
	assert.Equal(t, "high", RelationshipLevel(0.8))
	assert.Equal(t, "medium", RelationshipLevel(0.5))
	assert.Equal(t, "low", RelationshipLevel(0.1))
}

func TestRelationshipTonePrecedence(t *testing.T) {
	assert.Equal(t, "protective", RelationshipTone(Profile{Vulnerability: 0.7, Irritation: 0.9}))
	assert.Equal(t, "guarded", RelationshipTone(Profile{Irritation: 0.7, Affinity: 0.9}))
	assert.Equal(t, "warm", RelationshipTone(Profile{Affinity: 0.7}))
	assert.Equal(t, "neutral", RelationshipTone(Profile{}))
}
