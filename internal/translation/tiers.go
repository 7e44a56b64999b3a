package translation

import (
	"strings"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

// GeneralTier matches the whole word against the general dictionary
type GeneralTier struct {
	Dict *lexicon.Dictionary
}

// Name returns the tier name
func (GeneralTier) Name() string { return "general" }

// Lookup performs an exact, case-insensitive match
func (t GeneralTier) Lookup(word, _ string) (string, bool) {
	return t.Dict.Lookup(word)
}

// CategoryTier matches the whole word against the dictionary of its category
type CategoryTier struct {
	Lexicon *lexicon.Lexicon
}

// Name returns the tier name
func (CategoryTier) Name() string { return "category" }

// Lookup performs an exact, case-insensitive match
func (t CategoryTier) Lookup(word, categoryID string) (string, bool) {
	return t.Lexicon.Dictionary(categoryID).Lookup(word)
}

// CompositionalTier translates multi-token words token by token and joins
// the parts without a separator. Tokens without an exact entry take the
// first entry, in table order, that is a prefix of the token or has the
// token as a prefix. Tokens that match nothing are kept as they are.
type CompositionalTier struct {
	Lexicon *lexicon.Lexicon
}

// Name returns the tier name
func (CompositionalTier) Name() string { return "compositional" }

// Lookup reports a miss for single tokens and for words where no token
// resolved at all
func (t CompositionalTier) Lookup(word, categoryID string) (string, bool) {
	tokens := strings.Fields(word)
	if len(tokens) < 2 {
		return "", false
	}

	tables := []*lexicon.Dictionary{t.Lexicon.General, t.Lexicon.Dictionary(categoryID)}

	var b strings.Builder
	resolved := 0
	for _, tok := range tokens {
		label, ok := exactIn(tables, tok)
		if !ok {
			label, ok = partialIn(tables, strings.ToLower(tok))
		}
		if !ok {
			b.WriteString(tok)
			continue
		}
		b.WriteString(label)
		resolved++
	}

	if resolved == 0 {
		return "", false
	}
	return b.String(), true
}

func exactIn(tables []*lexicon.Dictionary, token string) (string, bool) {
	for _, d := range tables {
		if label, ok := d.Lookup(token); ok {
			return label, true
		}
	}
	return "", false
}

func partialIn(tables []*lexicon.Dictionary, token string) (string, bool) {
	for _, d := range tables {
		for key, label := range d.All() {
			if strings.HasPrefix(key, token) || strings.HasPrefix(token, key) {
				return label, true
			}
		}
	}
	return "", false
}
