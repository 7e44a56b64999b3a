package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyWord is returned when nothing is left of a filename after the
// suffixes are stripped
var ErrEmptyWord = errors.New("filename yields an empty word")

var (
	// randomSuffix matches a short trailing hash such as "-edk7q2"; the
	// digit requirement is checked separately
	randomSuffix  = regexp.MustCompile(`-([A-Za-z0-9]{3,10})$`)
	numericSuffix = regexp.MustCompile(`-[0-9]+$`)
)

// DefaultCasing holds the tokens that do not follow plain capitalisation
var DefaultCasing = map[string]string{
	"ai":   "AI",
	"tts":  "TTS",
	"cpu":  "CPU",
	"led":  "LED",
	"usb":  "USB",
	"wifi": "Wi-Fi",
	"tv":   "TV",
	"pc":   "PC",
	"dna":  "DNA",
	"phd":  "PhD",
	"mri":  "MRI",
	"xray": "X-ray",
}

// Normalizer turns filenames into canonical display words
type Normalizer struct {
	casing map[string]string
}

// NewNormalizer creates a normalizer with the given casing overrides. Keys
// are matched against lowercased tokens. A nil table uses DefaultCasing.
func NewNormalizer(casing map[string]string) *Normalizer {
	if casing == nil {
		casing = DefaultCasing
	}
	return &Normalizer{casing: casing}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize derives the canonical word using DefaultCasing
func Normalize(filename string) (string, error) {
	return defaultNormalizer.Normalize(filename)
}

// Normalize derives the canonical display word of a filename, for example
// "cat-edk7q2.png" becomes "Cat" and "usb-cable_2.png" becomes "USB Cable 2".
func (n *Normalizer) Normalize(filename string) (string, error) {
	tokens := strings.FieldsFunc(Stem(filename), func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: %q", ErrEmptyWord, filename)
	}

	for i, tok := range tokens {
		tokens[i] = n.caseToken(tok)
	}
	return strings.Join(tokens, " "), nil
}

func (n *Normalizer) caseToken(tok string) string {
	lower := strings.ToLower(tok)
	if override, ok := n.casing[lower]; ok {
		return override
	}
	return capitalize(lower)
}

// capitalize upper-cases the first rune of an already lowercased token
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Stem strips the extension, a trailing random suffix and a trailing
// numeric suffix, in that order. Hyphens and underscores are kept.
func Stem(filename string) string {
	base := norm.NFC.String(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if m := randomSuffix.FindStringSubmatchIndex(base); m != nil {
		if strings.ContainsAny(base[m[2]:m[3]], "0123456789") {
			base = base[:m[0]]
		}
	}
	return numericSuffix.ReplaceAllString(base, "")
}
