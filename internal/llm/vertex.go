package llm

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexClient calls Gemini models hosted on Vertex AI.
type VertexClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewVertexClient(ctx context.Context, project, location, model string, temperature float32) (*VertexClient, error) {
	client, err := genai.NewClient(ctx, project, location)
	if err != nil {
		return nil, err
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(temperature)
	m.ResponseMIMEType = "application/json"

	return &VertexClient{client: client, model: m}, nil
}

func (v *VertexClient) Complete(ctx context.Context, prompt string) (string, error) {
	if v == nil || v.model == nil {
		return "", completionError("vertexai", errors.New("nil client"))
	}

	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", completionError("vertexai", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", completionError("vertexai", errors.New("no response candidates returned"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", completionError("vertexai", errors.New("empty response"))
	}
	return out, nil
}

func (v *VertexClient) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}
