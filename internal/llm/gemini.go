package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model, temperature: temperature}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", completionError("gemini", errors.New("nil client"))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", completionError("gemini", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", completionError("gemini", errors.New("empty response"))
	}
	return text, nil
}
