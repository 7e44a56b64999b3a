package translation

import (
	"codeberg.org/snonux/flashsort/internal/lexicon"
)

// Strategy is one lookup tier. It must be a pure function of its inputs.
type Strategy interface {
	Name() string
	Lookup(word, categoryID string) (string, bool)
}

// Tier names the stage that produced a label
type Tier string

// Identity is reported when no strategy produced a label
const Identity Tier = "identity"

// Resolver maps canonical words to label pairs through an ordered chain of
// strategies
type Resolver struct {
	tiers []Strategy
}

// NewResolver creates a resolver over the given tiers. Without tiers the
// default chain for lex is used.
func NewResolver(lex *lexicon.Lexicon, tiers ...Strategy) *Resolver {
	if len(tiers) == 0 {
		tiers = DefaultTiers(lex)
	}
	return &Resolver{tiers: tiers}
}

// DefaultTiers returns general, category and compositional lookup in order
func DefaultTiers(lex *lexicon.Lexicon) []Strategy {
	return []Strategy{
		GeneralTier{Dict: lex.General},
		CategoryTier{Lexicon: lex},
		CompositionalTier{Lexicon: lex},
	}
}

// Resolve returns the label pair for a word in a category. When no tier
// matches, the target equals the word.
func (r *Resolver) Resolve(word, categoryID string) lexicon.LabelPair {
	pair, _ := r.ResolveTier(word, categoryID)
	return pair
}

// ResolveTier is Resolve that also reports which tier answered
func (r *Resolver) ResolveTier(word, categoryID string) (lexicon.LabelPair, Tier) {
	for _, s := range r.tiers {
		if label, ok := s.Lookup(word, categoryID); ok {
			return lexicon.LabelPair{Source: word, Target: label}, Tier(s.Name())
		}
	}
	return lexicon.LabelPair{Source: word, Target: word}, Identity
}
