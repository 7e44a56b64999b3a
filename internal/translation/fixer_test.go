package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/testutil"
)

func TestFixerRederivesFromDictionaries(t *testing.T) {
	fixer := &Fixer{Resolver: NewResolver(lexicon.Default()), Workers: 2}

	candidates := []Candidate{
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Cat", Target: "Cat"}},
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Dog", Target: "狗"}},
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Zebra", Target: "Zebra"}},
	}

	targets, stats := fixer.Fix(context.Background(), candidates)

	assert.Equal(t, []string{"猫", "狗", "Zebra"}, targets)
	assert.Equal(t, FixStats{Total: 3, Flagged: 2, Rederived: 1, Unchanged: 1}, stats)
}

func TestFixerMachineTranslation(t *testing.T) {
	mock := &testutil.MockTranslator{
		Translations: map[string]string{
			"Zebra":      "斑马",
			"Polar Bear": "北极熊",
			"Okapi":      "Okapi",
		},
		Errors: map[string]error{"Aardwolf": errors.New("service down")},
	}
	fixer := &Fixer{
		Resolver:   NewResolver(lexicon.Default()),
		Translator: mock,
		Cache:      NewTranslationCache(),
		Workers:    4,
	}

	candidates := []Candidate{
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Zebra", Target: "Zebra"}},
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Polar Bear", Target: "Polar熊"}},
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Aardwolf", Target: "Aardwolf"}},
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Okapi", Target: "Okapi"}},
		{CategoryID: "others", Word: lexicon.LabelPair{Source: "Zebra", Target: "Zebra"}},
	}

	targets, stats := fixer.Fix(context.Background(), candidates)

	assert.Equal(t, []string{"斑马", "北极熊", "Aardwolf", "Okapi", "斑马"}, targets)
	assert.Equal(t, 5, stats.Flagged)
	assert.Equal(t, 3, stats.MachineTranslated)
	assert.Equal(t, 2, stats.Unchanged)
	cached, ok := fixer.Cache.Get("Polar Bear")
	assert.True(t, ok)
	assert.Equal(t, "北极熊", cached)
}

func TestFixerLeavesTranslatedLabelsAlone(t *testing.T) {
	mock := &testutil.MockTranslator{}
	fixer := &Fixer{Resolver: NewResolver(lexicon.Default()), Translator: mock}

	targets, stats := fixer.Fix(context.Background(), []Candidate{
		{CategoryID: "animals", Word: lexicon.LabelPair{Source: "Cat", Target: "小猫"}},
	})

	assert.Equal(t, []string{"小猫"}, targets)
	assert.Zero(t, stats.Flagged)
	assert.Zero(t, mock.CallCount())
}

func TestBestEffort(t *testing.T) {
	mock := &testutil.MockTranslator{
		Translations: map[string]string{"Owl": "猫头鹰", "Blank": ""},
		Errors:       map[string]error{"Bad": errors.New("boom")},
	}
	ctx := context.Background()

	assert.Equal(t, "猫头鹰", BestEffort(ctx, mock, "Owl"))
	assert.Equal(t, "Bad", BestEffort(ctx, mock, "Bad"))
	assert.Equal(t, "Blank", BestEffort(ctx, mock, "Blank"))
	assert.Equal(t, "Owl", BestEffort(ctx, nil, "Owl"))
}
