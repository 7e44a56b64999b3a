package audio

import (
	"context"
	"errors"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestSourceAndTargetDefaults(t *testing.T) {
	source := SourceDefaults()
	if source.Provider != "coqui" {
		t.Errorf("Expected provider 'coqui', got '%s'", source.Provider)
	}
	if source.Model != "tts_models/en/vctk/vits" {
		t.Errorf("Expected VITS model, got '%s'", source.Model)
	}
	if source.Speaker != "p273" {
		t.Errorf("Expected speaker 'p273', got '%s'", source.Speaker)
	}
	if source.SpeakerLocale != "" {
		t.Errorf("Expected no language index for the English model, got '%s'", source.SpeakerLocale)
	}
	if source.Language != LangEnglish {
		t.Errorf("Expected language '%s', got '%s'", LangEnglish, source.Language)
	}

	target := TargetDefaults()
	if target.Model != "tts_models/multilingual/multi-dataset/xtts_v2" {
		t.Errorf("Expected XTTS v2 model, got '%s'", target.Model)
	}
	if target.Speaker != "1" {
		t.Errorf("Expected speaker '1', got '%s'", target.Speaker)
	}
	if target.SpeakerLocale != "zh-cn" {
		t.Errorf("Expected language index 'zh-cn', got '%s'", target.SpeakerLocale)
	}
	if target.Language != LangChinese {
		t.Errorf("Expected language '%s', got '%s'", LangChinese, target.Language)
	}
	if target.OutputFormat != "wav" {
		t.Errorf("Expected output format 'wav', got '%s'", target.OutputFormat)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantErr  bool
		errMsg   string
		wantName string
	}{
		{
			name:     "nil config uses English defaults",
			config:   nil,
			wantName: "coqui",
		},
		{
			name: "openai provider without key",
			config: &Config{
				Provider: "openai",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "openai provider with key",
			config: &Config{
				Provider:  "openai",
				OpenAIKey: "test-key",
			},
			wantName: "openai",
		},
		{
			name: "coqui provider without model",
			config: &Config{
				Provider: "coqui",
				Speaker:  "p273",
			},
			wantErr: true,
			errMsg:  "coqui model is required",
		},
		{
			name: "unknown provider",
			config: &Config{
				Provider: "unknown",
			},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && err.Error() != tt.errMsg {
				t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
			}
			if !tt.wantErr && provider != nil && provider.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Test successful primary
	ctx := context.Background()
	err := provider.GenerateAudio(ctx, "test", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 0 {
		t.Errorf("Expected 0 fallback calls, got %d", fallback.generateCalls)
	}

	// Test primary failure, fallback success
	primary.generateErr = errors.New("primary failed")
	primary.generateCalls = 0

	err = provider.GenerateAudio(ctx, "test", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 1 {
		t.Errorf("Expected 1 fallback call, got %d", fallback.generateCalls)
	}

	// Test both fail
	fallback.generateErr = errors.New("fallback failed")
	primary.generateCalls = 0
	fallback.generateCalls = 0

	err = provider.GenerateAudio(ctx, "test", "output.mp3")
	if err == nil {
		t.Error("GenerateAudio() expected error when both providers fail")
	}
}

func TestProviderWithFallbackStopsWhenCancelled(t *testing.T) {
	primary := &mockProvider{name: "primary", generateErr: context.Canceled}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := provider.GenerateAudio(ctx, "test", "output.wav"); err == nil {
		t.Error("GenerateAudio() expected the primary error")
	}
	if fallback.generateCalls != 0 {
		t.Errorf("Expected 0 fallback calls after cancellation, got %d", fallback.generateCalls)
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	expected := "primary (fallback: fallback)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Both available
	err := provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	// Primary unavailable, fallback available
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	// Primary available, fallback unavailable
	primary.availableErr = nil
	fallback.availableErr = errors.New("fallback unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when primary available: %v", err)
	}

	// Both unavailable
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}
