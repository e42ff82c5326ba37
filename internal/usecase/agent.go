package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/domain/repository"
	"atlas-core/internal/metrics"
	"atlas-core/internal/sqlguard"

	"go.uber.org/zap"
)

const (
	agentMaxOutputTokens = 1024
	defaultRowLimit      = 500
)

// Agent turns a natural-language question into an AgentResult. Run never
// returns an error; every failure is converted into a result at the agent
// boundary so one agent can never abort its siblings.
type Agent interface {
	Name() string
	Run(ctx context.Context, question string, dryRun bool) *entity.AgentResult
}

// RetrievalAgent generates a query with an agent-specific system prompt,
// validates it, and executes it against the bound store.
type RetrievalAgent struct {
	name         string
	generator    repository.TextGenerator
	store        repository.RowStore
	systemPrompt string
	rowLimit     int
	logger       *zap.Logger
}

// NewRelationalAgent answers float metadata and status questions against
// the PostGIS store.
func NewRelationalAgent(generator repository.TextGenerator, store repository.RowStore, logger *zap.Logger) *RetrievalAgent {
	return &RetrievalAgent{
		name:         "relational",
		generator:    generator,
		store:        store,
		systemPrompt: relationalPrompt(defaultRowLimit),
		rowLimit:     defaultRowLimit,
		logger:       logger,
	}
}

// NewAnalyticalAgent answers profile measurement questions against the
// DuckDB engine over the given Parquet bucket.
func NewAnalyticalAgent(generator repository.TextGenerator, store repository.RowStore, bucket string, logger *zap.Logger) *RetrievalAgent {
	return &RetrievalAgent{
		name:         "analytical",
		generator:    generator,
		store:        store,
		systemPrompt: analyticalPrompt(bucket, defaultRowLimit),
		rowLimit:     defaultRowLimit,
		logger:       logger,
	}
}

func (a *RetrievalAgent) Name() string { return a.name }

func (a *RetrievalAgent) Run(ctx context.Context, question string, dryRun bool) (res *entity.AgentResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("agent panic recovered", zap.String("agent", a.name), zap.Any("panic", p))
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
		metrics.AgentRuns.WithLabelValues(a.name, status).Inc()
	}()

	gen, err := a.generator.Generate(ctx, a.systemPrompt, question, agentMaxOutputTokens)
	generationMs := time.Since(start).Milliseconds()
	metrics.AgentStageDuration.WithLabelValues(a.name, "generation").Observe(float64(generationMs))
	if err != nil {
		return &entity.AgentResult{
			Success: false,
			Error:   fmt.Sprintf("query generation failed: %v", err),
			Timing:  entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}
	metrics.TokensUsed.WithLabelValues(a.name).Observe(float64(gen.TokenUsage))

	vr := sqlguard.Validate(gen.Text)
	if !vr.Valid {
		metrics.ValidatorRejections.WithLabelValues(a.name).Inc()
		a.logger.Warn("generated query rejected",
			zap.String("agent", a.name), zap.String("reason", vr.Reason), zap.String("query", vr.Query))
		return &entity.AgentResult{
			Success:    false,
			Query:      vr.Query,
			Error:      "generated query rejected: " + vr.Reason,
			TokenUsage: gen.TokenUsage,
			Timing:     entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}

	query := ensureLimit(vr.Query, a.rowLimit)

	if dryRun {
		return &entity.AgentResult{
			Success:    true,
			Query:      query,
			RowCount:   0,
			TokenUsage: gen.TokenUsage,
			Timing:     entity.Timing{GenerationMs: generationMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}

	execStart := time.Now()
	rows, err := a.store.Query(ctx, query)
	executionMs := time.Since(execStart).Milliseconds()
	metrics.AgentStageDuration.WithLabelValues(a.name, "execution").Observe(float64(executionMs))
	if err != nil {
		a.logger.Warn("store execution failed", zap.String("agent", a.name), zap.Error(err))
		return &entity.AgentResult{
			Success:    false,
			Query:      query,
			Error:      fmt.Sprintf("query execution failed: %v", err),
			TokenUsage: gen.TokenUsage,
			Timing:     entity.Timing{GenerationMs: generationMs, ExecutionMs: executionMs, TotalMs: time.Since(start).Milliseconds()},
		}
	}

	return &entity.AgentResult{
		Success:    true,
		Query:      query,
		Rows:       rows,
		RowCount:   len(rows),
		TokenUsage: gen.TokenUsage,
		Timing:     entity.Timing{GenerationMs: generationMs, ExecutionMs: executionMs, TotalMs: time.Since(start).Milliseconds()},
	}
}

var trailingLimitRe = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)((?:\s+OFFSET\s+\d+)?)\s*$`)

// ensureLimit caps the row count of a validated query. Only the trailing
// LIMIT governs the result size (the prompts require one), so subquery
// limits are left untouched; a missing trailing LIMIT gets one appended.
func ensureLimit(query string, maxRows int) string {
	m := trailingLimitRe.FindStringSubmatchIndex(query)
	if m == nil {
		return fmt.Sprintf("%s LIMIT %d", query, maxRows)
	}
	n, err := strconv.Atoi(query[m[2]:m[3]])
	if err == nil && n <= maxRows {
		return query
	}
	offset := query[m[4]:m[5]]
	return fmt.Sprintf("%sLIMIT %d%s", query[:m[0]], maxRows, offset)
}
