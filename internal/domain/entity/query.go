package entity

import "time"

// Generation is the raw output of one text-generation call.
type Generation struct {
	Text       string `json:"text"`
	TokenUsage int    `json:"token_usage"`
}

// RoutingDecision selects which agents handle a question. Produced only by
// the router, one per request, never mutated after it is returned.
type RoutingDecision struct {
	Relational   bool    `json:"relational"`
	Analytical   bool    `json:"analytical"`
	Literature   bool    `json:"literature"`
	Conversation bool    `json:"conversation"`
	Reasoning    string  `json:"reasoning"`
	Confidence   float64 `json:"confidence"`
	TokenUsage   int     `json:"token_usage"`
}

// AnyEnabled reports whether at least one agent flag is set. The router
// guarantees this holds for every decision it returns.
func (d *RoutingDecision) AnyEnabled() bool {
	return d.Relational || d.Analytical || d.Literature || d.Conversation
}

// ConversationOnly reports whether the decision short-circuits to the
// general conversation agent, skipping the retrieval fan-out entirely.
func (d *RoutingDecision) ConversationOnly() bool {
	return d.Conversation && !d.Relational && !d.Analytical && !d.Literature
}

// Row is a single result record: column name to scalar value.
type Row map[string]any

// Timing is the per-agent latency breakdown in milliseconds.
type Timing struct {
	GenerationMs int64 `json:"generation_ms"`
	ExecutionMs  int64 `json:"execution_ms"`
	TotalMs      int64 `json:"total_ms"`
}

// AgentResult is the outcome of one agent invocation. A failed agent still
// returns a result (Success false, Error set); agents never propagate errors
// past their own boundary.
type AgentResult struct {
	Success    bool       `json:"success"`
	Query      string     `json:"query,omitempty"`
	Rows       []Row      `json:"rows,omitempty"`
	RowCount   int        `json:"row_count"`
	Timing     Timing     `json:"timing"`
	TokenUsage int        `json:"token_usage"`
	Error      string     `json:"error,omitempty"`
	Citations  []Citation `json:"citations,omitempty"`
}

// Citation references a publication surfaced by the literature agent.
type Citation struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      int      `json:"year"`
	DOI       string   `json:"doi,omitempty"`
	URL       string   `json:"url,omitempty"`
	Journal   string   `json:"journal,omitempty"`
	Relevance float64  `json:"relevance"`
	Excerpt   string   `json:"excerpt,omitempty"`
}

// SynthesizedResponse is the terminal artifact of a request. It lives for
// the request/response cycle only and is never persisted.
type SynthesizedResponse struct {
	Response   string     `json:"response"`
	Citations  []Citation `json:"citations"`
	Timestamp  time.Time  `json:"timestamp"`
	TokenUsage int        `json:"token_usage"`
}

// QueryRequest is the inbound question.
type QueryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id,omitempty"`
}
