package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when a remote translator has no credentials
var ErrNoAPIKey = errors.New("API key not found")

// MachineTranslator translates English text into the target language
type MachineTranslator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// prompt builds the instruction shared by the chat-based translators
func prompt(text string) string {
	return fmt.Sprintf("Translate the English word or phrase '%s' into Simplified Chinese for a "+
		"children's picture flash card. Respond with only the Chinese translation, nothing else.", text)
}

// cleanAnswer strips the quoting and punctuation models like to add
func cleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'“”‘’「」`)
	s = strings.TrimRight(s, ".。!！")
	return strings.TrimSpace(s)
}

// BestEffort returns the translation of text, or text itself when the
// translator fails or answers with nothing
func BestEffort(ctx context.Context, t MachineTranslator, text string) string {
	if t == nil {
		return text
	}
	out, err := t.Translate(ctx, text)
	if err != nil {
		slog.Warn("machine translation failed", "text", text, "error", err)
		return text
	}
	if out == "" {
		return text
	}
	return out
}

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a translator. An empty model uses GPT-4o mini.
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Translate asks the chat model for a translation of text
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrNoAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(text),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return cleanAnswer(resp.Choices[0].Message.Content), nil
}
