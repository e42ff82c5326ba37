package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"atlas-core/internal/domain/entity"
)

func TestSynthesizerSynthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer with pass-through citations", func(t *testing.T) {
		gen := &fakeGenerator{text: "The float last surfaced at 12.50°S, 67.90°E.", tokens: 80}
		s := NewSynthesizer(gen, zap.NewNop())

		cits := []entity.Citation{{ID: "roemmich-2009"}}
		resp, err := s.Synthesize(ctx, "context document", cits)
		require.NoError(t, err)
		assert.Equal(t, "The float last surfaced at 12.50°S, 67.90°E.", resp.Response)
		assert.Equal(t, cits, resp.Citations)
		assert.Equal(t, 80, resp.TokenUsage)
		assert.False(t, resp.Timestamp.IsZero())
	})

	t.Run("nil citations become an empty list", func(t *testing.T) {
		gen := &fakeGenerator{text: "answer"}
		resp, err := NewSynthesizer(gen, zap.NewNop()).Synthesize(ctx, "doc", nil)
		require.NoError(t, err)
		assert.NotNil(t, resp.Citations)
		assert.Empty(t, resp.Citations)
	})

	t.Run("generation failure is fatal", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("service down")}
		resp, err := NewSynthesizer(gen, zap.NewNop()).Synthesize(ctx, "doc", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, entity.ErrSynthesisFailed)
	})

	t.Run("context document is the prompt body", func(t *testing.T) {
		gen := &fakeGenerator{text: "answer"}
		_, err := NewSynthesizer(gen, zap.NewNop()).Synthesize(ctx, "THE DOCUMENT", nil)
		require.NoError(t, err)
		require.Len(t, gen.prompts, 1)
		assert.Equal(t, "THE DOCUMENT", gen.prompts[0])
	})
}
