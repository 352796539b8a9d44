package postprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"maumjari-counsel-be/pkg/counsel/persona"
)

// ShortReplyFallback replaces responses that are too short to be useful.
const ShortReplyFallback = "말씀해주신 내용을 잘 들었습니다. 좀 더 자세히 이야기해주실 수 있을까요?"

const (
	minReplyRunes = 15
	minTailRunes  = 5
)

var (
	assistantMarkers = []string{"<|im_start|>assistant\n", "assistant\n"}

	// accepted sentence endings after sanitizing
	sentenceEndings = []string{".", "요", "다", "네요", "어요", "까요", "?", "습니다"}
	// endings checked before persona styling
	styleEndings = []string{".", "요", "다", "네요", "어요", "까요", "?"}

	numericTailRe = regexp.MustCompile(`[-\s]*\d+(?:\s+\d+){2,}.*$`)
	angleTokenRe  = regexp.MustCompile(`<[^>]*>`)
	bracketRe     = regexp.MustCompile(`\[.*?\]`)
	oddCharsRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}.,!?]+`)
	spacesRe      = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Clean runs the full pipeline over raw model output.
func Clean(raw string, p persona.Persona) string {
	return ApplyPersona(Sanitize(Extract(raw)), p)
}

// Extract keeps only the text after the last assistant-turn marker.
func Extract(raw string) string {
	for _, marker := range assistantMarkers {
		if i := strings.LastIndex(raw, marker); i >= 0 {
			return strings.TrimSpace(raw[i+len(marker):])
		}
	}
	return raw
}

// Sanitize strips generation artifacts, normalizes the sentence ending and
// enforces the minimum-length and truncated-tail rules.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	text = numericTailRe.ReplaceAllString(text, "")
	text = angleTokenRe.ReplaceAllString(text, "")
	text = bracketRe.ReplaceAllString(text, "")
	text = oddCharsRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))

	if text != "" && !hasAnySuffix(text, sentenceEndings) {
		switch {
		case strings.Contains(text, "어떻게") || strings.Contains(text, "무엇"):
			text += "?"
		case !strings.Contains(text, "습니"):
			text += "요"
		default:
			text += "."
		}
	}

	if runeLen(text) < minReplyRunes {
		return ShortReplyFallback
	}

	parts := strings.Split(text, ".")
	if len(parts) > 1 && runeLen(strings.TrimSpace(parts[len(parts)-1])) < minTailRunes {
		text = strings.Join(parts[:len(parts)-1], ".") + "."
		if runeLen(text) < minReplyRunes {
			return ShortReplyFallback
		}
	}

	return text
}

// ApplyPersona appends the persona's closing clause when the text carries
// none of its signature phrases. Running it twice never stacks clauses.
func ApplyPersona(text string, p persona.Persona) string {
	if containsAny(text, p.EndingPhrases) {
		return text
	}
	if !hasAnySuffix(text, styleEndings) {
		text += "."
	}
	closing := p.Closing()
	if !containsAny(text, closing.Guards) {
		text += closing.Clause
	}
	return text
}

// EndsProperly reports whether text ends with an accepted sentence ending.
func EndsProperly(text string) bool {
	return hasAnySuffix(text, sentenceEndings)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
