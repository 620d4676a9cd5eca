package client

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

const imageModel = "imagen-3.0-generate-002"

// ImageGenerator produces inline images for use inside generated pages.
type ImageGenerator struct {
	client *genai.Client
}

func NewImageGenerator(ctx context.Context, apiKey string) (*ImageGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required for image generation")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &ImageGenerator{client: c}, nil
}

// Generate renders one image for the prompt and returns it as a data URL
// ready to drop into an <img> src attribute.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateImages(ctx, imageModel, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("generating image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("generating image: empty response")
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.ImageBytes), nil
}
