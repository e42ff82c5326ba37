package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"atlas-core/internal/domain/entity"
)

// fakeGenerator returns a fixed generation (or error) and records calls.
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	tokens  int
	err     error
	calls   int
	systems []string
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string, _ int32) (*entity.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.systems = append(f.systems, systemPrompt)
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Generation{Text: f.text, TokenUsage: f.tokens}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStore returns fixed rows (or an error, or panics) and records the
// queries it received.
type fakeStore struct {
	mu      sync.Mutex
	rows    []entity.Row
	err     error
	panics  bool
	queries []string
}

func (f *fakeStore) Query(_ context.Context, query string) ([]entity.Row, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.panics {
		panic("store blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// stubAgent returns a canned result and counts invocations.
type stubAgent struct {
	name   string
	result *entity.AgentResult
	calls  int32
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Run(_ context.Context, _ string, _ bool) *entity.AgentResult {
	atomic.AddInt32(&s.calls, 1)
	return s.result
}

func (s *stubAgent) callCount() int32 {
	return atomic.LoadInt32(&s.calls)
}
