package mind

import (
	"fmt"
	"strings"

	"github.com/nereth/stagemind/internal/ai"
)

// Approximate character budgets per prompt section. LLMs run ~4 chars per
// token for English; never send the full turn history.
const (
	BudgetIdentity     = 600 * 4
	BudgetDirectives   = 200 * 4
	BudgetRelationship = 100 * 4
	BudgetHistory      = 800 * 4
)

// PromptBudget enforces per-section limits on generated prompts.
type PromptBudget struct {
	MaxIdentity     int
	MaxDirectives   int
	MaxRelationship int
	MaxHistory      int
}

// DefaultPromptBudget returns the shipped limits.
func DefaultPromptBudget() PromptBudget {
	return PromptBudget{
		MaxIdentity:     BudgetIdentity,
		MaxDirectives:   BudgetDirectives,
		MaxRelationship: BudgetRelationship,
		MaxHistory:      BudgetHistory,
	}
}

// TrimToChars truncates s to maxChars, preferring a word boundary.
func TrimToChars(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	out := string(r[:maxChars])
	if lastSpace := strings.LastIndex(out, " "); lastSpace > maxChars/2 {
		return strings.TrimSpace(out[:lastSpace])
	}
	return strings.TrimSpace(out)
}

// BuildMessages assembles provider messages from a decision, the scene's
// profiles and recent turns. The persona identity text is the host's;
// style hints are expressed as plain-language directives, never raw
// numbers.
func BuildMessages(identity, persona string, dec ResponseDecision, sceneControl string, profiles map[string]Profile, history []ConversationTurn, budget PromptBudget) []ai.Message {
	var b strings.Builder

	if identity != "" {
		b.WriteString(TrimToChars(identity, budget.MaxIdentity))
		b.WriteString("\n\n")
	}

	b.WriteString("--- Scene ---\n")
	fmt.Fprintf(&b, "You are %s in a roleplay scene (%s control).\n", persona, sceneControl)

	b.WriteString("--- Response Directives ---\n")
	directives := []string{
		"Response kind: " + dec.Type.String() + ".",
		"Style: " + dec.Style + ". Tone: " + dec.Tone + ". Approach: " + dec.Approach + ".",
	}
	if dec.AddressCharacter != "" {
		directives = append(directives, "Address "+dec.AddressCharacter+" directly.")
	}
	directives = append(directives,
		"Stay in character.",
		"Never expose internal metrics or reasoning.",
		"One reply, no preamble, no quotes.",
	)
	b.WriteString(TrimToChars("- "+strings.Join(directives, "\n- ")+"\n", budget.MaxDirectives))

	if dec.AddressCharacter != "" {
		p := profiles[NormalizeName(dec.AddressCharacter)]
		rel := "--- Relationship ---\n" +
			"Affinity with " + dec.AddressCharacter + ": " + RelationshipLevel(p.Affinity) + ".\n" +
			"Trust: " + RelationshipLevel(p.Trust) + ".\n" +
			"Emotional guard: " + RelationshipLevel(1-p.Vulnerability) + ".\n" +
			"Adjust tone accordingly.\n"
		b.WriteString(TrimToChars(rel, budget.MaxRelationship))
	}

	msgs := []ai.Message{{Role: "system", Content: b.String()}}

	// Recent turns, newest kept, oldest dropped to fit the budget.
	var used int
	start := len(history)
	for start > 0 {
		t := history[start-1]
		line := t.Speaker + ": " + t.Message
		if used+len(line) > budget.MaxHistory {
			break
		}
		used += len(line)
		start--
	}
	for _, t := range history[start:] {
		role := "user"
		content := t.Speaker + ": " + t.Message
		if strings.EqualFold(t.Speaker, persona) {
			role = "assistant"
			content = t.Message
		}
		msgs = append(msgs, ai.Message{Role: role, Content: content})
	}
	return msgs
}
