package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Language tags used to pick validation rules and engine voices
const (
	LangEnglish = "en"
	LangChinese = "zh"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds the settings of one voice: the engine and how it speaks
type Config struct {
	Provider     string // Provider name: "coqui", "openai" or "espeak"
	Language     string // LangEnglish or LangChinese
	OutputFormat string // "wav" or "mp3"

	// Coqui-specific settings
	CoquiCommand  string // tts binary, "tts" when empty
	Model         string // e.g. "tts_models/en/vctk/vits"
	Speaker       string // --speaker_idx
	SpeakerLocale string // --language_idx for multilingual models, e.g. "zh-cn"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "coral", "nova", "sage", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// espeak-ng-specific settings
	ESpeakVoice string // "en", "cmn", ...
	ESpeakSpeed int    // words per minute
}

// SourceDefaults returns the English voice: Coqui VITS trained on VCTK,
// speaker p273
func SourceDefaults() *Config {
	return &Config{
		Provider:          "coqui",
		Language:          LangEnglish,
		OutputFormat:      "wav",
		CoquiCommand:      "tts",
		Model:             "tts_models/en/vctk/vits",
		Speaker:           "p273",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "Speak clear, friendly English slowly for young learners.",
		ESpeakVoice:       "en",
		ESpeakSpeed:       140,
	}
}

// TargetDefaults returns the Chinese voice: Coqui XTTS v2 speaking zh-cn
func TargetDefaults() *Config {
	return &Config{
		Provider:          "coqui",
		Language:          LangChinese,
		OutputFormat:      "wav",
		CoquiCommand:      "tts",
		Model:             "tts_models/multilingual/multi-dataset/xtts_v2",
		Speaker:           "1",
		SpeakerLocale:     "zh-cn",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       0.9,
		OpenAIInstruction: "You are speaking Mandarin Chinese (普通话). Pronounce each word with standard tones, slowly and clearly for young learners.",
		ESpeakVoice:       "cmn",
		ESpeakSpeed:       130,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = SourceDefaults()
	}

	switch config.Provider {
	case "coqui":
		return NewCoquiProvider(config)
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "espeak":
		return NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	slog.Warn("primary voice provider failed, falling back",
		"primary", p.primary.Name(), "fallback", p.fallback.Name(), "error", err)
	return p.fallback.GenerateAudio(ctx, text, outputFile)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
