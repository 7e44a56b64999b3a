package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CoquiProvider implements Provider by running the Coqui TTS command line
type CoquiProvider struct {
	config  *Config
	command string
}

// NewCoquiProvider creates a new Coqui TTS provider
func NewCoquiProvider(config *Config) (*CoquiProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("coqui model is required")
	}
	if config.Speaker == "" {
		return nil, fmt.Errorf("coqui speaker is required")
	}

	command := config.CoquiCommand
	if command == "" {
		command = "tts"
	}
	return &CoquiProvider{config: config, command: command}, nil
}

// Args returns the command line arguments for one synthesis
func (p *CoquiProvider) Args(text, outputFile string) []string {
	args := []string{
		"--text", text,
		"--model_name", p.config.Model,
		"--speaker_idx", p.config.Speaker,
	}
	if p.config.SpeakerLocale != "" {
		args = append(args, "--language_idx", p.config.SpeakerLocale)
	}
	return append(args, "--out_path", outputFile)
}

// GenerateAudio runs tts for text. A non-zero exit, a cancelled context or a
// missing output file is an error.
func (p *CoquiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text, p.config.Language); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.command, p.Args(text, outputFile)...)
	cmd.Env = append(os.Environ(), "COQUI_TTS_AGREED=true")
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("coqui tts: %w", ctxErr)
		}
		return fmt.Errorf("coqui tts failed: %w: %s", err, lastLine(stderr.String()))
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return fmt.Errorf("coqui tts produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("coqui tts produced an empty file: %s", outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *CoquiProvider) Name() string {
	return "coqui"
}

// IsAvailable checks that the tts command is on PATH
func (p *CoquiProvider) IsAvailable() error {
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("coqui tts is not installed or not in PATH: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
