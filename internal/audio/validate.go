package audio

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextLength is the longest text, in characters, sent to an engine
const MaxTextLength = 200

var (
	// ErrTextEmpty is returned for blank input
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrTextTooLong is returned for input over MaxTextLength
	ErrTextTooLong = errors.New("text is too long")
	// ErrWrongScript is returned when Chinese text holds no Han characters
	ErrWrongScript = errors.New("text must contain Chinese characters")
)

// ValidateText checks text before it is handed to a speech engine. Chinese
// text must contain at least one Han character so untranslated labels are
// never voiced as Chinese.
func ValidateText(text, lang string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrTextEmpty
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, n, MaxTextLength)
	}

	if isChinese(lang) {
		for _, r := range text {
			if unicode.Is(unicode.Han, r) {
				return nil
			}
		}
		return ErrWrongScript
	}
	return nil
}

func isChinese(lang string) bool {
	lang = strings.ToLower(lang)
	return lang == LangChinese || strings.HasPrefix(lang, "zh-") || lang == "cmn"
}
