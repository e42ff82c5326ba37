package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/domain/repository"
	"atlas-core/internal/metrics"

	"go.uber.org/zap"
)

const (
	routerMaxOutputTokens = 512

	// Confidence assigned when the router has to repair or replace a
	// decision instead of trusting the model's own estimate.
	overrideConfidence = 0.2
	fallbackConfidence = 0.1
)

// Router classifies a question into a routing decision. It never returns
// an error: any failure degrades to a conversation-only decision.
type Router struct {
	generator repository.TextGenerator
	logger    *zap.Logger
}

func NewRouter(generator repository.TextGenerator, logger *zap.Logger) *Router {
	return &Router{generator: generator, logger: logger}
}

func (r *Router) Route(ctx context.Context, question string) *entity.RoutingDecision {
	gen, err := r.generator.Generate(ctx, routerSystemPrompt, question, routerMaxOutputTokens)
	if err != nil {
		r.logger.Warn("routing generation failed", zap.Error(err))
		return r.fallback(fmt.Sprintf("routing service unavailable (%v), defaulting to conversation", err), 0)
	}

	decision, err := parseDecision(gen.Text)
	if err != nil {
		r.logger.Warn("routing decision unparseable", zap.Error(err), zap.String("raw", gen.Text))
		return r.fallback(fmt.Sprintf("routing output unparseable (%v), defaulting to conversation", err), gen.TokenUsage)
	}
	decision.TokenUsage = gen.TokenUsage

	// A decision must never leave the router with zero active agents.
	if !decision.AnyEnabled() {
		decision.Conversation = true
		decision.Confidence = overrideConfidence
		decision.Reasoning = "router selected no agents; overridden to conversation"
		metrics.RoutingFallbacks.Inc()
	}

	r.record(decision)
	metrics.TokensUsed.WithLabelValues("routing").Observe(float64(gen.TokenUsage))
	return decision
}

func (r *Router) fallback(reason string, tokens int) *entity.RoutingDecision {
	metrics.RoutingFallbacks.Inc()
	d := &entity.RoutingDecision{
		Conversation: true,
		Reasoning:    reason,
		Confidence:   fallbackConfidence,
		TokenUsage:   tokens,
	}
	r.record(d)
	return d
}

func (r *Router) record(d *entity.RoutingDecision) {
	if d.Relational {
		metrics.RoutingDecisions.WithLabelValues("relational").Inc()
	}
	if d.Analytical {
		metrics.RoutingDecisions.WithLabelValues("analytical").Inc()
	}
	if d.Literature {
		metrics.RoutingDecisions.WithLabelValues("literature").Inc()
	}
	if d.Conversation {
		metrics.RoutingDecisions.WithLabelValues("conversation").Inc()
	}
}

// parseDecision extracts and decodes the first JSON object from model
// output. All four agent flags must be present; confidence is clamped to
// [0,1].
func parseDecision(text string) (*entity.RoutingDecision, error) {
	obj, ok := extractJSONObject(text)
	if !ok {
		return nil, errors.New("no JSON object found")
	}

	var raw struct {
		Relational   *bool   `json:"relational"`
		Analytical   *bool   `json:"analytical"`
		Literature   *bool   `json:"literature"`
		Conversation *bool   `json:"conversation"`
		Confidence   float64 `json:"confidence"`
		Reasoning    string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.Relational == nil || raw.Analytical == nil || raw.Literature == nil || raw.Conversation == nil {
		return nil, errors.New("missing agent flags")
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &entity.RoutingDecision{
		Relational:   *raw.Relational,
		Analytical:   *raw.Analytical,
		Literature:   *raw.Literature,
		Conversation: *raw.Conversation,
		Reasoning:    raw.Reasoning,
		Confidence:   confidence,
	}, nil
}
