package client

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/domain/repository"

	"go.uber.org/zap"
)

// ResilientGenerator layers a per-call timeout, bounded retries with
// jittered backoff, and a one-shot fallback model over a raw generator.
// Agents see a single TextGenerator and stay unaware of the layering.
type ResilientGenerator struct {
	primary    repository.TextGenerator
	fallback   repository.TextGenerator
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	logger     *zap.Logger
}

func NewResilientGenerator(primary, fallback repository.TextGenerator, timeout time.Duration, logger *zap.Logger) *ResilientGenerator {
	return &ResilientGenerator{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		timeout:    timeout,
		logger:     logger,
	}
}

func (r *ResilientGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int32) (*entity.Generation, error) {
	// Scoped deadline so one slow generation cannot hang the whole request.
	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	gen, err := r.generateWithRetry(genCtx, r.primary, systemPrompt, userPrompt, maxOutputTokens)
	if err == nil {
		return gen, nil
	}

	if r.fallback == nil {
		return nil, err
	}
	r.logger.Warn("primary model exhausted, switching to fallback", zap.Error(err))

	gen, err = r.fallback.Generate(genCtx, systemPrompt, userPrompt, maxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("both primary and fallback generation failed: %w", err)
	}
	return gen, nil
}

func (r *ResilientGenerator) generateWithRetry(ctx context.Context, g repository.TextGenerator, systemPrompt, userPrompt string, maxOutputTokens int32) (*entity.Generation, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		gen, err := g.Generate(ctx, systemPrompt, userPrompt, maxOutputTokens)
		if err == nil {
			return gen, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	// Retry on rate limits (429) and server errors (5xx).
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "deadline")
}

func (r *ResilientGenerator) backoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff
	return time.Duration(backoff + jitter)
}
