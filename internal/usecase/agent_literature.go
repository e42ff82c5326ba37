package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/domain/repository"
	"atlas-core/internal/metrics"

	"go.uber.org/zap"
)

const literatureMaxResults = 5

// LiteratureAgent surfaces publications relevant to a topic. The current
// backend is a stand-in that asks the text-generation service for a JSON
// citation list; only the topic-in, citations-out contract is load-bearing.
type LiteratureAgent struct {
	generator  repository.TextGenerator
	maxResults int
	logger     *zap.Logger
}

func NewLiteratureAgent(generator repository.TextGenerator, logger *zap.Logger) *LiteratureAgent {
	return &LiteratureAgent{
		generator:  generator,
		maxResults: literatureMaxResults,
		logger:     logger,
	}
}

func (a *LiteratureAgent) Name() string { return "literature" }

func (a *LiteratureAgent) Run(ctx context.Context, question string, dryRun bool) (res *entity.AgentResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("agent panic recovered", zap.String("agent", a.Name()), zap.Any("panic", p))
			res = &entity.AgentResult{
				Success: false,
				Error:   fmt.Sprintf("internal agent error: %v", p),
				Timing:  entity.Timing{TotalMs: time.Since(start).Milliseconds()},
			}
		}
		status := "failure"
		if res.Success {
			status = "success"
		}
		metrics.AgentRuns.WithLabelValues(a.Name(), status).Inc()
	}()

	gen, err := a.generator.Generate(ctx, literaturePrompt(a.maxResults), question, agentMaxOutputTokens)
	generationMs := time.Since(start).Milliseconds()
	metrics.AgentStageDuration.WithLabelValues(a.Name(), "generation").Observe(float64(generationMs))
	if err != nil {
		return &entity.AgentResult{
			Success: false,
			Error:   fmt.Sprintf("literature lookup failed: %v", err),
			Timing:  entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}
	metrics.TokensUsed.WithLabelValues(a.Name()).Observe(float64(gen.TokenUsage))

	if dryRun {
		return &entity.AgentResult{
			Success:    true,
			Query:      strings.TrimSpace(gen.Text),
			TokenUsage: gen.TokenUsage,
			Timing:     entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}

	citations, err := parseCitations(gen.Text, a.maxResults)
	if err != nil {
		a.logger.Warn("literature output unparseable", zap.Error(err))
		return &entity.AgentResult{
			Success:    false,
			Error:      "literature results could not be parsed",
			TokenUsage: gen.TokenUsage,
			Timing:     entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}

	return &entity.AgentResult{
		Success:    true,
		Citations:  citations,
		RowCount:   len(citations),
		TokenUsage: gen.TokenUsage,
		Timing:     entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
	}
}

func parseCitations(text string, max int) ([]entity.Citation, error) {
	arr, ok := extractJSONArray(text)
	if !ok {
		return nil, fmt.Errorf("no JSON array found")
	}
	var citations []entity.Citation
	if err := json.Unmarshal([]byte(arr), &citations); err != nil {
		return nil, fmt.Errorf("invalid citation JSON: %w", err)
	}
	if len(citations) > max {
		citations = citations[:max]
	}
	for i := range citations {
		if citations[i].Relevance < 0 {
			citations[i].Relevance = 0
		}
		if citations[i].Relevance > 1 {
			citations[i].Relevance = 1
		}
	}
	return citations, nil
}
