package aim

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaCaptioner generates captions with a local Ollama server.
type OllamaCaptioner struct {
	client *api.Client
	model  string
}

// NewOllamaCaptioner connects using OLLAMA_HOST or the default address.
func NewOllamaCaptioner(model string) (*OllamaCaptioner, error) {
	c, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}

	return &OllamaCaptioner{client: c, model: model}, nil
}

// Name implements Captioner.
func (o *OllamaCaptioner) Name() string {
	return "ollama/" + o.model
}

// Caption sends the image through the generate API and accumulates the
// streamed response.
func (o *OllamaCaptioner) Caption(ctx context.Context, image []byte, prompt string, temperature float64) (string, error) {
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Images: []api.ImageData{image},
		Options: map[string]any{
			"temperature": temperature,
		},
	}

	var sb strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}
