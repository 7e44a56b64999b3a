package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockTranslator mocks a machine translation service
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate returns the canned translation for text, or an error
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return "", fmt.Errorf("no mock translation for %q", text)
}

// CallCount returns how often Translate was called
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockProvider mocks a speech synthesis provider. Successful calls write a
// small placeholder file to the output path.
type MockProvider struct {
	mu           sync.Mutex
	ProviderName string
	Errors       map[string]error
	AvailableErr error
	Calls        []string
}

// GenerateAudio records the call and writes a placeholder file
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	err, failed := m.Errors[text]
	m.mu.Unlock()

	if failed {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, GenerateAudioData(), 0644)
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns AvailableErr
func (m *MockProvider) IsAvailable() error {
	return m.AvailableErr
}

// CallCount returns how often GenerateAudio was called
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// GenerateAudioData returns a minimal RIFF/WAVE header
func GenerateAudioData() []byte {
	return []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
}

// GenerateImageData returns a minimal PNG signature
func GenerateImageData() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
}
