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

const synthesisMaxOutputTokens = 2048

// Synthesizer turns the formatted context document into the final answer.
// This is the one stage whose failure is fatal for the request.
type Synthesizer struct {
	generator repository.TextGenerator
	logger    *zap.Logger
}

func NewSynthesizer(generator repository.TextGenerator, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{generator: generator, logger: logger}
}

func (s *Synthesizer) Synthesize(ctx context.Context, contextDoc string, citations []entity.Citation) (*entity.SynthesizedResponse, error) {
	gen, err := s.generator.Generate(ctx, synthesizerSystemPrompt, contextDoc, synthesisMaxOutputTokens)
	if err != nil {
		metrics.SynthesisFailures.Inc()
		s.logger.Error("synthesis generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entity.ErrSynthesisFailed, err)
	}
	metrics.TokensUsed.WithLabelValues("synthesis").Observe(float64(gen.TokenUsage))

	if citations == nil {
		citations = []entity.Citation{}
	}
	return &entity.SynthesizedResponse{
		Response:   strings.TrimSpace(gen.Text),
		Citations:  citations,
		Timestamp:  time.Now().UTC(),
		TokenUsage: gen.TokenUsage,
	}, nil
}
