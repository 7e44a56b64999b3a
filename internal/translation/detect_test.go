package translation

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

func TestIsUntranslated(t *testing.T) {
	tests := []struct {
		name string
		pair lexicon.LabelPair
		want bool
	}{
		{"translated", lexicon.LabelPair{Source: "Cat", Target: "猫"}, false},
		{"identity", lexicon.LabelPair{Source: "Zebra", Target: "Zebra"}, true},
		{"identity ignoring case", lexicon.LabelPair{Source: "Zebra", Target: "zebra"}, true},
		{"mixed script", lexicon.LabelPair{Source: "Polar Bear", Target: "Polar熊"}, true},
		{"empty target", lexicon.LabelPair{Source: "Cat", Target: " "}, true},
		{"digits allowed", lexicon.LabelPair{Source: "Robot 2", Target: "机器人2"}, false},
		{"punctuation allowed", lexicon.LabelPair{Source: "Hot Dog", Target: "热狗！"}, false},
		{"latin letter in label", lexicon.LabelPair{Source: "T Shirt", Target: "T恤"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUntranslated(tt.pair))
		})
	}
}

func TestHasForeignLetters(t *testing.T) {
	assert.False(t, HasForeignLetters("狗 123 -", unicode.Han))
	assert.True(t, HasForeignLetters("狗a", unicode.Han))
	assert.False(t, HasForeignLetters("dog", unicode.Latin))
	assert.True(t, HasForeignLetters("собака", unicode.Latin))
}
