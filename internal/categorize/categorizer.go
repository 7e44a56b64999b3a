package categorize

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

// KeywordScore is the score of one category for one filename
type KeywordScore struct {
	CategoryID string
	Score      int
}

type scorer struct {
	id       string
	keywords []string
}

// Categorizer scores filenames against an ordered list of categories
type Categorizer struct {
	scorers []scorer
}

var separators = strings.NewReplacer("-", " ", "_", " ")

// New builds a categorizer. Category order is the tie-break order.
func New(categories []lexicon.Category) *Categorizer {
	c := &Categorizer{scorers: make([]scorer, 0, len(categories))}
	for _, cat := range categories {
		s := scorer{id: cat.ID}
		seen := make(map[string]bool, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			// keywords go through the same transform as filenames so that
			// "t-shirt" can match "t shirt"
			key := separators.Replace(strings.ToLower(norm.NFC.String(strings.TrimSpace(kw))))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			s.keywords = append(s.keywords, key)
		}
		c.scorers = append(c.scorers, s)
	}
	return c
}

// ComparisonString is the lowercase, extension-less form of a filename with
// hyphens and underscores turned into spaces. It is only used for matching.
func ComparisonString(filename string) string {
	base := norm.NFC.String(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return separators.Replace(strings.ToLower(base))
}

// Scores returns the non-zero category scores in declaration order. A
// keyword contributes its length in characters when it occurs anywhere in
// the filename.
func (c *Categorizer) Scores(filename string) []KeywordScore {
	subject := ComparisonString(filename)

	var scores []KeywordScore
	for _, s := range c.scorers {
		score := 0
		for _, kw := range s.keywords {
			if strings.Contains(subject, kw) {
				score += utf8.RuneCountInString(kw)
			}
		}
		if score > 0 {
			scores = append(scores, KeywordScore{CategoryID: s.id, Score: score})
		}
	}
	return scores
}

// Categorize returns the best scoring category id, or lexicon.OthersID when
// nothing matches. Equal scores go to the category declared first.
func (c *Categorizer) Categorize(filename string) string {
	best := KeywordScore{CategoryID: lexicon.OthersID}
	for _, s := range c.Scores(filename) {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.CategoryID
}
