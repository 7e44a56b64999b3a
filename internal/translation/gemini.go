package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	model  string
	client *genai.Client
}

// NewGeminiTranslator creates a translator backed by the Gemini API
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{model: model, client: client}, nil
}

// Translate asks Gemini for a translation of text
func (t *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 50,
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt(text)), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	answer := cleanAnswer(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return answer, nil
}
