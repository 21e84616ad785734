package mind

import (
	"regexp"
	"sort"
	"strings"
)

// Fixed keyword tables. These are deliberately dumb: the engine is a
// best-effort heuristic classifier, not a semantic parser, and must
// degrade to silence rather than guess.

var topicKeywords = map[string][]string{
	"stellar-navigation": {"star", "stars", "navigation", "navigate", "course", "heading", "orbit", "trajectory", "chart", "charts", "constellation", "sextant", "jump", "plot"},
	"medical":            {"wound", "injury", "injured", "medicine", "doctor", "patient", "fever", "bandage", "surgery", "symptom", "symptoms", "healing", "bleeding", "dose"},
	"dance":              {"dance", "dancing", "waltz", "choreography", "footwork", "rhythm", "ballroom", "partner", "tempo"},
	"engineering":        {"engine", "reactor", "repair", "calibrate", "coolant", "hull", "diagnostic", "pressure", "valve"},
	"music":              {"song", "melody", "harmony", "chord", "sing", "singing", "instrument", "tune"},
}

var emotionKeywords = map[string][]string{
	"distressed": {"trouble", "worried", "worry", "scared", "afraid", "anxious", "overwhelmed", "struggling", "failing", "doubt", "alone", "lost", "hopeless", "exhausted"},
	"joyful":     {"happy", "glad", "wonderful", "great", "excited", "delighted", "laugh", "laughing"},
	"angry":      {"angry", "furious", "hate", "annoyed", "outraged", "fed up"},
	"tender":     {"grateful", "gentle", "miss you", "thank you", "dear"},
}

// First-person distress and self-doubt phrasing. Matching any of these
// marks the message as vulnerability language.
var vulnerabilityMarkers = []string{
	"i'm having trouble",
	"i am having trouble",
	"i can't",
	"i cannot",
	"i'm not sure i",
	"i don't know if i",
	"i feel like",
	"i'm afraid",
	"i'm scared",
	"i'm worried",
	"i'm struggling",
	"i keep failing",
	"living up to",
	"not good enough",
	"let everyone down",
	"let you down",
	"what's wrong with me",
	"i doubt myself",
}

// Second-person-plural words that can open a group address.
var groupWords = []string{"everyone", "everybody", "all of you", "you all", "y'all", "folks", "you two", "you both"}

// Frames in which a group word is the object of an experience rather than
// a vocative: "living up to everyone's expectations" is about the speaker,
// not addressed to the room.
var experientialFrames = []string{"living up to", "disappoint", "let down", "expectations of", "in front of", "compared to", "because of"}

var emoteLineRe = regexp.MustCompile(`\*[^*]+\*|_[^_]+_`)

// MessageThemes returns sorted topic tags whose keywords appear in text.
func MessageThemes(text string) []string {
	lower := strings.ToLower(text)
	var themes []string
	for tag, words := range topicKeywords {
		for _, w := range words {
			if containsWord(lower, w) {
				themes = append(themes, tag)
				break
			}
		}
	}
	sort.Strings(themes)
	return themes
}

// EmotionalTone picks the emotion category with the most keyword hits, or
// "neutral" when nothing matches.
func EmotionalTone(text string) string {
	lower := strings.ToLower(text)
	best, bestHits := "neutral", 0
	// Stable iteration for deterministic ties.
	cats := make([]string, 0, len(emotionKeywords))
	for c := range emotionKeywords {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		hits := 0
		for _, w := range emotionKeywords[cat] {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cat, hits
		}
	}
	if hasVulnerabilityMarker(lower) && best == "neutral" {
		best = "distressed"
	}
	return best
}

// MessageIntensity estimates 0..1 from punctuation, caps and length.
func MessageIntensity(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	score := 0.2
	score += 0.15 * float64(min(strings.Count(text, "!"), 3))
	if strings.Contains(text, "?!") || strings.Contains(text, "!!") {
		score += 0.1
	}
	upper, letters := 0, 0
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	if letters > 10 && upper*100/letters > 40 {
		score += 0.25
	}
	if len(text) > 240 {
		score += 0.1
	}
	return clamp01(score)
}

func hasVulnerabilityMarker(lower string) bool {
	for _, m := range vulnerabilityMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// groupAddressWord finds a group word in text and reports whether it is
// used as a vocative (a true address to the room) rather than as the
// grammatical object of a possessive or experiential frame.
func groupAddressWord(text string) (word string, vocative bool) {
	lower := strings.ToLower(text)
	for _, gw := range groupWords {
		idx := strings.Index(lower, gw)
		if idx < 0 {
			continue
		}
		word = gw
		after := lower[idx+len(gw):]
		if strings.HasPrefix(after, "'s") || strings.HasPrefix(after, "s'") {
			return word, false
		}
		before := lower[:idx]
		for _, f := range experientialFrames {
			if fi := strings.LastIndex(before, f); fi >= 0 && idx-fi < 40 {
				return word, false
			}
		}
		return word, true
	}
	return "", false
}

// isEmoteOnly reports whether the line is action markup with no dialogue:
// every non-whitespace character sits inside *asterisk* or _underscore_
// emotes.
func isEmoteOnly(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if !strings.ContainsAny(text, "*_") {
		return false
	}
	rest := emoteLineRe.ReplaceAllString(text, "")
	return strings.TrimSpace(rest) == ""
}

func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		beforeOK := i == 0 || !isWordChar(lower[i-1])
		j := i + len(word)
		afterOK := j >= len(lower) || !isWordChar(lower[j])
		if beforeOK && afterOK {
			return true
		}
		idx = i + 1
	}
}

func isWordChar(b byte) bool {
	return b == '\'' || b == '-' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
