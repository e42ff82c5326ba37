package usecase

import (
	"context"
	"strings"

	"atlas-core/internal/domain/repository"
	"atlas-core/internal/metrics"

	"go.uber.org/zap"
)

const conversationMaxOutputTokens = 512

const conversationFallback = "I'm having trouble reaching the language service right now. " +
	"Please try again in a moment — I can answer questions about Argo floats, " +
	"their positions, their status and their measurements."

// ConversationAgent handles greetings and off-topic questions with a single
// persona generation call. It cannot fail: generation errors degrade to a
// fixed fallback reply.
type ConversationAgent struct {
	generator repository.TextGenerator
	logger    *zap.Logger
}

func NewConversationAgent(generator repository.TextGenerator, logger *zap.Logger) *ConversationAgent {
	return &ConversationAgent{generator: generator, logger: logger}
}

func (a *ConversationAgent) Reply(ctx context.Context, question string) (string, int) {
	gen, err := a.generator.Generate(ctx, conversationSystemPrompt, question, conversationMaxOutputTokens)
	if err != nil {
		a.logger.Warn("conversation generation failed", zap.Error(err))
		metrics.AgentRuns.WithLabelValues("conversation", "failure").Inc()
		return conversationFallback, 0
	}
	metrics.AgentRuns.WithLabelValues("conversation", "success").Inc()
	metrics.TokensUsed.WithLabelValues("conversation").Observe(float64(gen.TokenUsage))
	return strings.TrimSpace(gen.Text), gen.TokenUsage
}
