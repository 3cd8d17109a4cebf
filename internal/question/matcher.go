package question

import (
	"regexp"
	"strings"
)

var (
	japaneseCommas = []string{"、", "，"}
	dashGlyphs     = []string{"ー", "~", "〜", "-"}

	// droppableSuffixes lists suffixes that may be omitted from a free-gloss
	// answer, e.g. "to go ..." also accepts "to go".
	droppableSuffixes = []string{"..."}

	parenPattern = regexp.MustCompile(`\s*\([^)]*\)\s*`)
)

// Normalize canonicalizes an answer text before comparison: Japanese commas
// become ",", all dash-like glyphs become "-" and the text is lowercased.
// The text is not trimmed because it may still need to be split on commas.
func Normalize(text string) string {
	for _, comma := range japaneseCommas {
		text = strings.ReplaceAll(text, comma, ",")
	}
	for _, dash := range dashGlyphs {
		text = strings.ReplaceAll(text, dash, "-")
	}
	return strings.ToLower(text)
}

// stripParens removes any parenthesized span and surrounding whitespace.
func stripParens(text string) string {
	return strings.TrimSpace(parenPattern.ReplaceAllString(text, ""))
}

// splitResponse splits a submitted response on commas into trimmed, unique
// answers. It reports whether the response contained duplicates.
func splitResponse(response string) (received []string, hasDuplicates bool) {
	parts := strings.Split(response, ",")
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if _, ok := seen[part]; ok {
			hasDuplicates = true
			continue
		}
		seen[part] = struct{}{}
		received = append(received, part)
	}
	return received, hasDuplicates
}

// expectedSets builds the sets of acceptable and required answer texts.
// For free-gloss answers both sets are augmented with parenthetical-stripped
// variants and with suffix-stripped variants. Suffix stripping adds a variant
// only for the first answer ending with each suffix; further answers with the
// same suffix keep only their full form.
func (a Answer) expectedSets() (expected, required map[string]struct{}) {
	expected = make(map[string]struct{}, len(a.Answers))
	required = make(map[string]struct{})

	// keep declaration order for the first-match suffix pass
	ordered := make([]string, 0, len(a.Answers))
	orderedRequired := make([]string, 0, len(a.Answers))
	for _, text := range a.Answers {
		normalized := Normalize(text.Text)
		expected[normalized] = struct{}{}
		ordered = append(ordered, normalized)
		if text.Required {
			required[normalized] = struct{}{}
			orderedRequired = append(orderedRequired, normalized)
		}
	}

	if a.Type.Exact() {
		return expected, required
	}

	for _, text := range ordered {
		expected[stripParens(text)] = struct{}{}
	}
	for _, text := range orderedRequired {
		required[stripParens(text)] = struct{}{}
	}

	for _, suffix := range droppableSuffixes {
		for _, text := range ordered {
			if strings.HasSuffix(text, suffix) {
				expected[strings.TrimSpace(strings.TrimSuffix(text, suffix))] = struct{}{}
				break
			}
		}
		for _, text := range orderedRequired {
			if strings.HasSuffix(text, suffix) {
				required[strings.TrimSpace(strings.TrimSuffix(text, suffix))] = struct{}{}
				break
			}
		}
	}

	return expected, required
}

// Check verifies the learner's response against this answer. It returns
// whether the response matched and the received answers that were not among
// the acceptable texts.
//
// A response is rejected when it repeats an answer, when a required answer is
// missing or when any received answer is not acceptable.
func (a Answer) Check(response Response) (bool, []string) {
	raw, ok := response[a.ID]
	if !ok {
		return false, nil
	}

	received, hasDuplicates := splitResponse(Normalize(raw))
	expected, required := a.expectedSets()

	var unexpected []string
	for _, answer := range received {
		if _, ok := expected[answer]; !ok {
			unexpected = append(unexpected, answer)
		}
	}

	if hasDuplicates {
		return false, unexpected
	}

	receivedSet := make(map[string]struct{}, len(received))
	for _, answer := range received {
		receivedSet[answer] = struct{}{}
	}
	for answer := range required {
		if _, ok := receivedSet[answer]; !ok {
			return false, unexpected
		}
	}

	return len(unexpected) == 0, unexpected
}
