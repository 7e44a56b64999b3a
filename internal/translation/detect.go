package translation

import (
	"strings"
	"unicode"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

// TargetScript is the writing system labels are expected to use
var TargetScript = unicode.Han

// IsUntranslated reports whether a label still needs translating: the target
// equals the source, or it contains letters outside TargetScript. Digits,
// spaces and punctuation are allowed.
func IsUntranslated(pair lexicon.LabelPair) bool {
	target := strings.TrimSpace(pair.Target)
	if target == "" || strings.EqualFold(target, strings.TrimSpace(pair.Source)) {
		return true
	}
	return HasForeignLetters(target, TargetScript)
}

// HasForeignLetters reports whether s contains a letter outside script
func HasForeignLetters(s string, script *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(script, r) {
			return true
		}
	}
	return false
}
