package aim

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiCaptioner generates captions with the Google AI API.
type GeminiCaptioner struct {
	client *genai.Client
	model  string
}

// NewGeminiCaptioner builds a Gemini-backed captioner.
func NewGeminiCaptioner(ctx context.Context, apiKey string, model string) (*GeminiCaptioner, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &GeminiCaptioner{client: client, model: model}, nil
}

// Name implements Captioner.
func (g *GeminiCaptioner) Name() string {
	return "gemini/" + g.model
}

// Caption implements Captioner.
func (g *GeminiCaptioner) Caption(ctx context.Context, image []byte, prompt string, temperature float64) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, "image/jpeg"),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
