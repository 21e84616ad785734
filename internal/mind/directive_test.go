package mind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSceneEnd(t *testing.T) {
	p := NewDirectiveParser("Seren")

	for _, msg := range []string{
		"[DIRECTIVE] END",
		"[DIRECTIVE][END]",
		"[directive] end",
		"[DIRECTIVE] End the scene here",
	} {
		d, ok := p.Parse(msg)
		require.True(t, ok, msg)
		assert.Equal(t, DirectiveSceneEnd, d.Kind, msg)
	}
}

func TestParsePersonaLine(t *testing.T) {
	p := NewDirectiveParser("Seren")

	d, ok := p.Parse("[DIRECTIVE][Seren] takes a slow breath and looks away")
	require.True(t, ok)
	assert.Equal(t, DirectivePersonaLine, d.Kind)
	assert.Equal(t, "takes a slow breath and looks away", d.Content)

	// Generic marker works regardless of the configured name.
	d, ok = p.Parse("[DIRECTIVE][PERSONA] nods once")
	require.True(t, ok)
	assert.Equal(t, DirectivePersonaLine, d.Kind)
	assert.Equal(t, "nods once", d.Content)
}

func TestParseSceneSetExtractsParticipants(t *testing.T) {
	p := NewDirectiveParser("Seren")

	d, ok := p.Parse("[DIRECTIVE] Alice and Bran enter the observatory at dusk")
	require.True(t, ok)
	assert.Equal(t, DirectiveSceneSet, d.Kind)
	assert.ElementsMatch(t, []string{"Alice", "Bran"}, d.Participants)

	d, ok = p.Parse("[DIRECTIVE] [Alice] waits by the door while [Bran] paces")
	require.True(t, ok)
	assert.Equal(t, DirectiveSceneSet, d.Kind)
	assert.ElementsMatch(t, []string{"Alice", "Bran"}, d.Participants)
}

func TestParseSceneSetExcludesPersonaAndStopwords(t *testing.T) {
	p := NewDirectiveParser("Seren")

	d, ok := p.Parse("[DIRECTIVE] The scene opens as Seren and Alice share tea")
	require.True(t, ok)
	assert.Equal(t, DirectiveSceneSet, d.Kind)
	assert.Equal(t, []string{"Alice"}, d.Participants)
}

func TestParseNonDirectivePassesThrough(t *testing.T) {
	p := NewDirectiveParser("Seren")

	for _, msg := range []string{
		"[Alice] hello there",
		"plain message",
		"DIRECTIVE without brackets",
		"[DIRECTIVE]",
		"[DIRECTIVE]   ",
		"",
	} {
		_, ok := p.Parse(msg)
		assert.False(t, ok, msg)
	}
}
