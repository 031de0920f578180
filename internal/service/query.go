package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/ports"
)

// MaxQuestionLength bounds the question forwarded to the agent.
const MaxQuestionLength = 4000

// QueryServiceOptions groups dependencies for QueryService.
type QueryServiceOptions struct {
	Agent  ports.Agent
	Logger *slog.Logger
}

// QueryService validates questions and forwards them to the agent backend.
type QueryService struct {
	agent  ports.Agent
	logger *slog.Logger
}

// NewQueryService constructs a QueryService.
func NewQueryService(opts QueryServiceOptions) *QueryService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{agent: opts.Agent, logger: logger.With("component", "query")}
}

// Ask trims the question, rejects empty or oversized input with a validation error, and
// returns the agent's answer.
func (s *QueryService) Ask(ctx context.Context, userID, question string) (ports.AgentAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return ports.AgentAnswer{}, apperrors.ValidationField("question", "No question provided")
	}
	if len(question) > MaxQuestionLength {
		return ports.AgentAnswer{}, apperrors.ValidationField("question", "Question is too long")
	}

	start := time.Now()
	answer, err := s.agent.Ask(ctx, question)
	if err != nil {
		s.logger.ErrorContext(ctx, "agent query failed", "user_id", userID, "error", err)
		return ports.AgentAnswer{}, err
	}

	s.logger.InfoContext(ctx, "agent query answered",
		"user_id", userID,
		"type", answer.Type,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
}
