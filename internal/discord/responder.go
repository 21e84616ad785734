package discord

import (
	"math/rand"
	"strings"

	"github.com/nereth/stagemind/internal/mind"
)

// CannedResponder serves the response types that never need a language
// model: group acknowledgments and subtle in-scene service. The random
// source is injected so tests can assert determinism.
type CannedResponder struct {
	persona string
	rnd     *rand.Rand
}

var groupLines = []string{
	"*{name} nods to the room* Morning, all.",
	"*{name} glances up with a small smile* Good to see everyone.",
	"*{name} raises a hand in greeting*",
}

var serviceLines = []string{
	"*{name} quietly refills the nearest cup*",
	"*{name} adjusts the lamp so the light falls better*",
	"*{name} slides a chair out without a word*",
}

// NewCannedResponder builds a responder for the persona. rnd must not be
// nil.
func NewCannedResponder(persona string, rnd *rand.Rand) *CannedResponder {
	return &CannedResponder{persona: persona, rnd: rnd}
}

// Line picks one canned line for the decision's response type, or ""
// when the type has no canned form.
func (c *CannedResponder) Line(dec mind.ResponseDecision) string {
	var pool []string
	switch dec.Type {
	case mind.ResponseGroupAcknowledgment:
		pool = groupLines
	case mind.ResponseSubtleService:
		pool = serviceLines
	default:
		return ""
	}
	line := pool[c.rnd.Intn(len(pool))]
	return strings.ReplaceAll(line, "{name}", c.persona)
}
