package api

import (
	"context"
	"errors"
	"time"

	"atlas-core/internal/domain/entity"
	"atlas-core/internal/metrics"
	"atlas-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryExecutor is what the handler needs from the orchestration layer.
type QueryExecutor interface {
	Execute(ctx context.Context, req entity.QueryRequest) (*entity.SynthesizedResponse, error)
}

type QueryHandler struct {
	orchestrator QueryExecutor
	agents       map[string]usecase.Agent
	logger       *zap.Logger
}

func NewQueryHandler(orchestrator QueryExecutor, agents []usecase.Agent, logger *zap.Logger) *QueryHandler {
	byName := make(map[string]usecase.Agent, len(agents))
	for _, a := range agents {
		byName[a.Name()] = a
	}
	return &QueryHandler{orchestrator: orchestrator, agents: byName, logger: logger}
}

type queryBody struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type debugBody struct {
	Query  string `json:"query"`
	DryRun bool   `json:"dry_run"`
}

// HandleQuery runs the full orchestration pipeline for one question.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var body queryBody
	if err := c.BodyParser(&body); err != nil {
		metrics.RequestsTotal.WithLabelValues("query", "error").Inc()
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}

	requestID := uuid.NewString()
	logger := h.logger.With(zap.String("request_id", requestID))

	resp, err := h.orchestrator.Execute(c.Context(), entity.QueryRequest{
		Query:  body.Query,
		UserID: body.UserID,
	})
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("query", "error").Inc()
		switch {
		case errors.Is(err, entity.ErrInvalidRequest):
			return failure(c, fiber.StatusBadRequest, "query must not be empty")
		case errors.Is(err, entity.ErrTokenBudgetExceeded):
			return failure(c, fiber.StatusTooManyRequests, err.Error())
		default:
			logger.Error("request failed", zap.Error(err))
			return failure(c, fiber.StatusInternalServerError, "unable to answer this question right now")
		}
	}

	metrics.RequestsTotal.WithLabelValues("query", "ok").Inc()
	logger.Info("request answered",
		zap.Int("token_usage", resp.TokenUsage),
		zap.Int("citations", len(resp.Citations)))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"request_id": requestID,
		"response":   resp.Response,
		"citations":  resp.Citations,
		"timestamp":  resp.Timestamp,
	})
}

// HandleAgentDebug invokes a single agent directly and returns its raw
// result, for debugging and dry-run previews of generated queries.
func (h *QueryHandler) HandleAgentDebug(c *fiber.Ctx) error {
	name := c.Params("agent")
	agent, ok := h.agents[name]
	if !ok {
		return failure(c, fiber.StatusNotFound, "unknown agent: "+name)
	}

	var body debugBody
	if err := c.BodyParser(&body); err != nil {
		return failure(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Query == "" {
		return failure(c, fiber.StatusBadRequest, "query must not be empty")
	}

	metrics.RequestsTotal.WithLabelValues("debug", "ok").Inc()
	result := agent.Run(c.Context(), body.Query, body.DryRun)
	return c.Status(fiber.StatusOK).JSON(result)
}

func failure(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"error":     msg,
		"timestamp": time.Now().UTC(),
	})
}
