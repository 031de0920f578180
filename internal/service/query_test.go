package service

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/scagent/scagent-web/internal/errors"
	mockauth "github.com/scagent/scagent-web/internal/mocks/auth"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_Ask(t *testing.T) {
	agent := &mockauth.StubAgent{Answer: ports.AgentAnswer{Answer: "3 suppliers", Type: "agent_multi_tool"}}
	svc := NewQueryService(QueryServiceOptions{Agent: agent})

	answer, err := svc.Ask(context.Background(), "u-1", "  which suppliers are late?  ")
	require.NoError(t, err)
	assert.Equal(t, "3 suppliers", answer.Answer)
	assert.Equal(t, []string{"which suppliers are late?"}, agent.Questions)
}

func TestQueryService_Ask_Validation(t *testing.T) {
	agent := &mockauth.StubAgent{}
	svc := NewQueryService(QueryServiceOptions{Agent: agent})

	for _, q := range []string{"", "   ", strings.Repeat("x", MaxQuestionLength+1)} {
		_, err := svc.Ask(context.Background(), "u-1", q)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.Empty(t, agent.Questions)
}

func TestQueryService_Ask_AgentError(t *testing.T) {
	agentErr := apperrors.Wrap(assert.AnError, apperrors.ErrCodeUnavailable, "agent request failed")
	svc := NewQueryService(QueryServiceOptions{Agent: &mockauth.StubAgent{Err: agentErr}})

	_, err := svc.Ask(context.Background(), "u-1", "q")
	assert.ErrorIs(t, err, agentErr)
}
