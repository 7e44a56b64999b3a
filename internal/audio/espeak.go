package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakProvider implements Provider interface for espeak-ng. It is the
// offline fallback when neither Coqui nor OpenAI is usable.
type ESpeakProvider struct {
	config *Config
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) (*ESpeakProvider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	return &ESpeakProvider{config: config}, nil
}

// Voice returns the espeak-ng voice for the configured language
func (p *ESpeakProvider) Voice() string {
	if p.config.ESpeakVoice != "" {
		return p.config.ESpeakVoice
	}
	if isChinese(p.config.Language) {
		return "cmn"
	}
	return "en"
}

// Args returns the espeak-ng arguments writing text to wavFile
func (p *ESpeakProvider) Args(text, wavFile string) []string {
	speed := p.config.ESpeakSpeed
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	return []string{"-v", p.Voice(), "-s", strconv.Itoa(speed), "-w", wavFile, text}
}

// GenerateAudio generates audio using espeak-ng. MP3 output is converted
// from WAV with ffmpeg.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text, p.config.Language); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.ToLower(filepath.Ext(outputFile)) != ".mp3" {
		return p.run(ctx, "espeak-ng", p.Args(text, outputFile)...)
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	defer os.Remove(tempWAV)
	if err := p.run(ctx, "espeak-ng", p.Args(text, tempWAV)...); err != nil {
		return err
	}
	return p.run(ctx, "ffmpeg", "-i", tempWAV, "-acodec", "mp3", "-y", outputFile)
}

func (p *ESpeakProvider) run(ctx context.Context, name string, args ...string) error {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", name, ctxErr)
		}
		return fmt.Errorf("%s failed: %w\nOutput: %s", name, err, string(output))
	}
	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}
