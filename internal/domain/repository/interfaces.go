package repository

import (
	"context"

	"atlas-core/internal/domain/entity"
)

// TextGenerator is the boundary to the text-generation service. Output is
// untrusted text; callers parse and validate it themselves.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int32) (*entity.Generation, error)
}

// RowStore executes a read-only query and returns the result rows in order.
type RowStore interface {
	Query(ctx context.Context, query string) ([]entity.Row, error)
}

// TokenLimiter enforces a per-user daily token budget.
type TokenLimiter interface {
	CheckLimit(ctx context.Context, userID string) (bool, error)
	Increment(ctx context.Context, userID string, tokens int) error
}
