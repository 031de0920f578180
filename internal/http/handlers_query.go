package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/scagent/scagent-web/internal/observability/metrics"
	"github.com/scagent/scagent-web/internal/observability/statsd"
	"github.com/scagent/scagent-web/internal/ports"
)

// QueryServiceInterface forwards a signed-in user's question to the agent.
type QueryServiceInterface interface {
	Ask(ctx context.Context, userID, question string) (ports.AgentAnswer, error)
}

// QueryHandlers serves the query proxy API.
type QueryHandlers struct {
	Svc     QueryServiceInterface
	Metrics statsd.Sink
	Logger  *slog.Logger
}

type queryRequest struct {
	Question string `json:"question"`
}

// Ask answers a question through the agent backend.
// POST /api/query {question} -> {answer, type}.
func (h *QueryHandlers) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxQueryBodyBytes)

	var req queryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "no_question",
			Err:     errors.New("No question provided"),
		})
		return
	}

	var userID string
	if session := GetSessionFromContext(r.Context()); session != nil {
		userID = session.UserID
	}

	start := time.Now()
	answer, err := h.Svc.Ask(r.Context(), userID, req.Question)
	metrics.EmitQuery(h.Metrics, metrics.QueryMetric{
		AnswerType: answer.Type,
		Duration:   time.Since(start),
		Err:        err,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}
