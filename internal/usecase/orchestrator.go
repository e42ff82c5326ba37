package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/domain/repository"
	"atlas-core/internal/metrics"

	"go.uber.org/zap"
)

// Orchestrator drives a request end to end: budget check, routing,
// conversation short-circuit or retrieval fan-out, context formatting and
// final synthesis.
type Orchestrator struct {
	router       *Router
	executor     *Executor
	conversation *ConversationAgent
	synthesizer  *Synthesizer
	limiter      repository.TokenLimiter // optional
	logger       *zap.Logger
}

func NewOrchestrator(router *Router, executor *Executor, conversation *ConversationAgent, synthesizer *Synthesizer, limiter repository.TokenLimiter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		router:       router,
		executor:     executor,
		conversation: conversation,
		synthesizer:  synthesizer,
		limiter:      limiter,
		logger:       logger,
	}
}

func (o *Orchestrator) Execute(ctx context.Context, req entity.QueryRequest) (*entity.SynthesizedResponse, error) {
	start := time.Now()
	question := strings.TrimSpace(req.Query)
	if question == "" {
		return nil, entity.ErrInvalidRequest
	}

	if o.limiter != nil && req.UserID != "" {
		allowed, err := o.limiter.CheckLimit(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("token budget check failed: %w", err)
		}
		if !allowed {
			return nil, entity.ErrTokenBudgetExceeded
		}
	}

	decision := o.router.Route(ctx, question)
	o.logger.Info("routing decision",
		zap.Bool("relational", decision.Relational),
		zap.Bool("analytical", decision.Analytical),
		zap.Bool("literature", decision.Literature),
		zap.Bool("conversation", decision.Conversation),
		zap.Float64("confidence", decision.Confidence),
	)

	var resp *entity.SynthesizedResponse
	if decision.ConversationOnly() {
		text, tokens := o.conversation.Reply(ctx, question)
		resp = &entity.SynthesizedResponse{
			Response:   text,
			Citations:  []entity.Citation{},
			Timestamp:  time.Now().UTC(),
			TokenUsage: decision.TokenUsage + tokens,
		}
	} else {
		results := o.executor.Execute(ctx, decision, question)
		contextDoc := BuildContext(question, results)

		out, err := o.synthesizer.Synthesize(ctx, contextDoc, results.Citations())
		if err != nil {
			return nil, err
		}
		out.TokenUsage += decision.TokenUsage + results.TotalTokens()
		resp = out
	}

	metrics.RequestDuration.Observe(time.Since(start).Seconds())

	if o.limiter != nil && req.UserID != "" {
		// The request context dies with the response, so usage is
		// accounted in the background with its own context.
		usage := resp.TokenUsage
		userID := req.UserID
		go func() {
			if err := o.limiter.Increment(context.Background(), userID, usage); err != nil {
				o.logger.Warn("token usage accounting failed", zap.Error(err))
			}
		}()
	}

	return resp, nil
}
