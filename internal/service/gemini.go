package service

import (
	"context"

	"google.golang.org/genai"
)

// GeminiGenerator adapts the Gemini client to the Generator interface.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator wraps an initialized Gemini client with a fixed
// model selector.
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

// Generate sends the prompt as a single-turn generation request and
// returns the concatenated response text. An empty response is returned
// as-is; the commentary service decides what to do with it.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
