package mind

import (
	"regexp"
	"strings"
)

// Narrator directive mini-grammar. A privileged narrator can set a scene,
// end it, or puppet the persona. A matched directive is terminal: no cue
// building or analysis runs for that message.
//
//	[DIRECTIVE] <free text>          scene-set
//	[DIRECTIVE][<persona>] <text>    puppeted persona line
//	[DIRECTIVE] END / [DIRECTIVE][END]  scene-end
const directiveMarker = "[DIRECTIVE]"

// DirectiveKind discriminates parsed directives.
type DirectiveKind int

const (
	DirectiveSceneSet DirectiveKind = iota
	DirectivePersonaLine
	DirectiveSceneEnd
)

// Directive is one parsed narrator control line.
type Directive struct {
	Kind         DirectiveKind
	Content      string
	Participants []string
}

// DirectiveParser recognizes the narrator mini-grammar for one persona.
type DirectiveParser struct {
	persona   string
	bracketRe *regexp.Regexp
	properRe  *regexp.Regexp
}

// Words that look like proper nouns in scene text but never are.
var properNounStop = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "with": true, "as": true,
	"scene": true, "end": true, "directive": true, "it": true, "they": true,
	"she": true, "he": true, "i": true, "we": true, "you": true,
}

// NewDirectiveParser builds a parser for the given persona name.
func NewDirectiveParser(persona string) *DirectiveParser {
	return &DirectiveParser{
		persona:   persona,
		bracketRe: regexp.MustCompile(`\[([^\[\]]+)\]`),
		properRe:  regexp.MustCompile(`\b\p{Lu}[\p{Ll}'-]+\b`),
	}
}

// Parse returns the directive and true when the message matches the
// grammar. Anything else passes through to cue building untouched.
func (p *DirectiveParser) Parse(message string) (Directive, bool) {
	msg := strings.TrimSpace(message)
	if len(msg) < len(directiveMarker) || !strings.EqualFold(msg[:len(directiveMarker)], directiveMarker) {
		return Directive{}, false
	}
	rest := strings.TrimSpace(msg[len(directiveMarker):])

	// Second bracketed token: [END] or the persona's own name.
	if strings.HasPrefix(rest, "[") {
		if m := p.bracketRe.FindStringSubmatchIndex(rest); m != nil && m[0] == 0 {
			token := rest[m[2]:m[3]]
			content := strings.TrimSpace(rest[m[1]:])
			if strings.EqualFold(token, "END") {
				return Directive{Kind: DirectiveSceneEnd}, true
			}
			if strings.EqualFold(token, p.persona) || strings.EqualFold(token, "PERSONA") {
				return Directive{Kind: DirectivePersonaLine, Content: content}, true
			}
			// Unknown bracketed token: treat as scene-set naming that
			// character first.
			return Directive{Kind: DirectiveSceneSet, Content: rest, Participants: p.extractNames(rest)}, true
		}
	}

	// A bare marker with no payload is not part of the grammar; let it
	// pass through as ordinary text rather than guess at intent.
	if rest == "" {
		return Directive{}, false
	}
	if strings.EqualFold(firstWord(rest), "END") {
		return Directive{Kind: DirectiveSceneEnd}, true
	}

	return Directive{Kind: DirectiveSceneSet, Content: rest, Participants: p.extractNames(rest)}, true
}

// extractNames pulls character names from scene-set text: bracketed tokens
// plus free-text proper nouns, minus stopwords and the persona itself.
func (p *DirectiveParser) extractNames(text string) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		n = strings.TrimSpace(n)
		key := NormalizeName(n)
		if key == "" || seen[key] || properNounStop[key] || strings.EqualFold(n, p.persona) {
			return
		}
		seen[key] = true
		names = append(names, n)
	}
	for _, m := range p.bracketRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	stripped := p.bracketRe.ReplaceAllString(text, " ")
	for _, m := range p.properRe.FindAllString(stripped, -1) {
		add(m)
	}
	return names
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i]
	}
	return s
}
