package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

func TestComparisonString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chicken-Raw.png", "chicken raw"},
		{"fire_truck-2.PNG", "fire truck 2"},
		{"images/cat-edk7q2.png", "cat edk7q2"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComparisonString(tt.in), tt.in)
	}
}

func TestCategorizeDefaultLexicon(t *testing.T) {
	c := New(lexicon.Default().Categories)

	tests := []struct {
		filename string
		want     string
	}{
		{"cat-edk7q2.png", "animals"},
		// "chicken" scores 7 in animals and food_and_drink; animals is declared first
		{"chicken-raw.png", "animals"},
		{"apple-juice.png", "food_and_drink"},
		{"xyz-gadget-99.png", lexicon.OthersID},
		{"fire-truck.png", "transportation"},
		{"t-shirt.png", "clothing_and_accessories"},
		{"eiffel-tower.png", "buildings_and_places"},
		{"", lexicon.OthersID},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.filename))
		})
	}
}

func TestScoresSumKeywordLengths(t *testing.T) {
	c := New(lexicon.Default().Categories)

	scores := c.Scores("chicken-raw.png")
	require.NotEmpty(t, scores)

	byID := make(map[string]int)
	for _, s := range scores {
		byID[s.CategoryID] = s.Score
	}
	assert.Equal(t, 7, byID["animals"])
	assert.Equal(t, 7, byID["food_and_drink"])
	assert.Equal(t, "animals", scores[0].CategoryID, "scores keep declaration order")
}

func TestTieBreakByDeclarationOrder(t *testing.T) {
	categories := []lexicon.Category{
		{ID: "racing", Keywords: []string{"dograce"}},
		{ID: "pets", Keywords: []string{"dog", "race"}},
	}
	c := New(categories)

	scores := c.Scores("dograce-track.png")
	assert.Equal(t, []KeywordScore{{"racing", 7}, {"pets", 7}}, scores)
	assert.Equal(t, "racing", c.Categorize("dograce-track.png"))

	swapped := New([]lexicon.Category{categories[1], categories[0]})
	assert.Equal(t, "pets", swapped.Categorize("dograce-track.png"))
}

func TestSpecificityBeatsMatchCount(t *testing.T) {
	c := New([]lexicon.Category{
		{ID: "short", Keywords: []string{"ca", "at", "t"}},
		{ID: "long", Keywords: []string{"caterpillar"}},
	})
	assert.Equal(t, "long", c.Categorize("caterpillar.png"))
}

func TestCategorizeAlwaysKnownID(t *testing.T) {
	lex := lexicon.Default()
	c := New(lex.Categories)

	known := map[string]bool{lexicon.OthersID: true}
	for _, cat := range lex.Categories {
		known[cat.ID] = true
	}

	for _, f := range []string{"zzz.png", "robot-dog.png", "a.png", "-.png", "guitar-hero-7.jpg", "ÄÖÜ.png"} {
		assert.True(t, known[c.Categorize(f)], f)
	}
}

func TestDuplicateKeywordsCountOnce(t *testing.T) {
	c := New([]lexicon.Category{{ID: "a", Keywords: []string{"dog", "DOG", "dog"}}})
	assert.Equal(t, []KeywordScore{{"a", 3}}, c.Scores("dog.png"))
}

func TestScoresCountCharacters(t *testing.T) {
	c := New([]lexicon.Category{
		{ID: "pastry", Keywords: []string{"tarte"}},
		{ID: "dairy", Keywords: []string{"crème"}},
	})

	assert.Equal(t, []KeywordScore{{"pastry", 5}, {"dairy", 5}}, c.Scores("tarte-crème.png"))
	assert.Equal(t, "pastry", c.Categorize("tarte-crème.png"))
}

func TestDecomposedKeywordsMatch(t *testing.T) {
	// "cre\u0300me" is the decomposed spelling of "crème"
	c := New([]lexicon.Category{{ID: "dairy", Keywords: []string{"cre\u0300me"}}})

	assert.Equal(t, []KeywordScore{{"dairy", 5}}, c.Scores("cr\u00e8me-brulee.png"))
	assert.Equal(t, []KeywordScore{{"dairy", 5}}, c.Scores("cre\u0300me-brulee.png"))
}
