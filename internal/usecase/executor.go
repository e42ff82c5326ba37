package usecase

import (
	"context"

	"atlas-core/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// AgentResults holds whichever agent outcomes a routing decision produced.
// Slots for agents that were not enabled stay nil.
type AgentResults struct {
	Relational *entity.AgentResult
	Analytical *entity.AgentResult
	Literature *entity.AgentResult
}

// AllFailed reports whether at least one agent was invoked and every
// invoked agent reported failure.
func (r *AgentResults) AllFailed() bool {
	invoked := 0
	failed := 0
	for _, res := range []*entity.AgentResult{r.Relational, r.Analytical, r.Literature} {
		if res == nil {
			continue
		}
		invoked++
		if !res.Success {
			failed++
		}
	}
	return invoked > 0 && invoked == failed
}

// TotalTokens sums token usage across all invoked agents.
func (r *AgentResults) TotalTokens() int {
	total := 0
	for _, res := range []*entity.AgentResult{r.Relational, r.Analytical, r.Literature} {
		if res != nil {
			total += res.TokenUsage
		}
	}
	return total
}

// Citations returns the literature agent's citations, if any.
func (r *AgentResults) Citations() []entity.Citation {
	if r.Literature == nil || !r.Literature.Success {
		return nil
	}
	return r.Literature.Citations
}

// Executor fans a question out to the agents enabled by a routing decision
// and joins once all of them have settled. Agents convert their own
// failures into results, so no agent can cancel or block a sibling.
type Executor struct {
	relational Agent
	analytical Agent
	literature Agent
}

func NewExecutor(relational, analytical, literature Agent) *Executor {
	return &Executor{
		relational: relational,
		analytical: analytical,
		literature: literature,
	}
}

func (e *Executor) Execute(ctx context.Context, decision *entity.RoutingDecision, question string) *AgentResults {
	results := &AgentResults{}

	// Zero-value group: no cancellation on error, Wait joins all.
	var g errgroup.Group
	if decision.Relational {
		g.Go(func() error {
			results.Relational = e.relational.Run(ctx, question, false)
			return nil
		})
	}
	if decision.Analytical {
		g.Go(func() error {
			results.Analytical = e.analytical.Run(ctx, question, false)
			return nil
		})
	}
	if decision.Literature {
		g.Go(func() error {
			results.Literature = e.literature.Run(ctx, question, false)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
