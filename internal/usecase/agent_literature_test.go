package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const citationJSON = `[
  {"id": "roemmich-2009", "title": "The Argo Program: observing the global ocean with profiling floats",
   "authors": ["Roemmich, D.", "Johnson, G. C."], "year": 2009,
   "doi": "10.5670/oceanog.2009.36", "journal": "Oceanography",
   "relevance": 0.95, "excerpt": "Overview of the Argo array design."},
  {"id": "wong-2020", "title": "Argo Data 1999-2019: two million temperature-salinity profiles",
   "authors": ["Wong, A. P. S."], "year": 2020, "journal": "Frontiers in Marine Science",
   "relevance": 0.8, "excerpt": "Data management and quality control."}
]`

func TestLiteratureAgentRun(t *testing.T) {
	ctx := context.Background()

	t.Run("parses citations from model output", func(t *testing.T) {
		gen := &fakeGenerator{text: "Sure, here are the papers:\n" + citationJSON, tokens: 120}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "papers about Argo float design", false)
		require.True(t, res.Success)
		require.Len(t, res.Citations, 2)
		assert.Equal(t, "roemmich-2009", res.Citations[0].ID)
		assert.Equal(t, 2009, res.Citations[0].Year)
		assert.Equal(t, 2, res.RowCount)
		assert.Equal(t, 120, res.TokenUsage)
	})

	t.Run("parse failure is recoverable with a user-safe message", func(t *testing.T) {
		gen := &fakeGenerator{text: "I could not find anything relevant, sorry."}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "anything", false)
		require.False(t, res.Success)
		assert.Equal(t, "literature results could not be parsed", res.Error)
	})

	t.Run("malformed JSON is recoverable", func(t *testing.T) {
		gen := &fakeGenerator{text: `[{"id": "x", "year": "not-a-number"}]`}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "anything", false)
		assert.False(t, res.Success)
	})

	t.Run("generation failure is recoverable", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("unavailable")}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "anything", false)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "literature lookup failed")
	})

	t.Run("truncates to the result budget and clamps relevance", func(t *testing.T) {
		long := `[
		  {"id": "a", "title": "A", "authors": [], "year": 2001, "relevance": 1.7},
		  {"id": "b", "title": "B", "authors": [], "year": 2002, "relevance": -0.2},
		  {"id": "c", "title": "C", "authors": [], "year": 2003, "relevance": 0.5},
		  {"id": "d", "title": "D", "authors": [], "year": 2004, "relevance": 0.4},
		  {"id": "e", "title": "E", "authors": [], "year": 2005, "relevance": 0.3},
		  {"id": "f", "title": "F", "authors": [], "year": 2006, "relevance": 0.2}
		]`
		gen := &fakeGenerator{text: long}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "anything", false)
		require.True(t, res.Success)
		assert.Len(t, res.Citations, literatureMaxResults)
		assert.Equal(t, 1.0, res.Citations[0].Relevance)
		assert.Equal(t, 0.0, res.Citations[1].Relevance)
	})

	t.Run("dry run returns the raw generation", func(t *testing.T) {
		gen := &fakeGenerator{text: citationJSON}
		agent := NewLiteratureAgent(gen, zap.NewNop())

		res := agent.Run(ctx, "anything", true)
		require.True(t, res.Success)
		assert.NotEmpty(t, res.Query)
		assert.Empty(t, res.Citations)
	})
}

func TestConversationAgentReply(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the generated reply", func(t *testing.T) {
		gen := &fakeGenerator{text: "  Hello! Ask me about ocean floats.  ", tokens: 12}
		agent := NewConversationAgent(gen, zap.NewNop())

		text, tokens := agent.Reply(ctx, "hello")
		assert.Equal(t, "Hello! Ask me about ocean floats.", text)
		assert.Equal(t, 12, tokens)
	})

	t.Run("degrades to the fixed fallback on generation failure", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("503")}
		agent := NewConversationAgent(gen, zap.NewNop())

		text, tokens := agent.Reply(ctx, "hello")
		assert.Equal(t, conversationFallback, text)
		assert.Zero(t, tokens)
	})
}
