package aim

import "context"

// Captioner turns an image plus a prompt into a natural-language response
// from a vision-capable model.
type Captioner interface {
	// Name identifies the backing model service for logs.
	Name() string

	// Caption returns the model's trimmed text response for the image. The
	// image bytes are the full contents of a JPEG file.
	Caption(ctx context.Context, image []byte, prompt string, temperature float64) (string, error)
}
