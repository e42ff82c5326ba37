package client

import (
	"context"
	"fmt"

	"atlas-core/internal/domain/entity"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClientFromClient binds a model name to a shared genai client,
// so the primary and fallback models reuse one connection.
func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		client: c,
		model:  model,
	}
}

func (g *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int32) (*entity.Generation, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: maxOutputTokens,
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	gen := &entity.Generation{Text: result.Text()}
	if result.UsageMetadata != nil {
		gen.TokenUsage = int(result.UsageMetadata.TotalTokenCount)
	}
	return gen, nil
}
