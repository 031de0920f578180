// Package agent forwards questions to the supply-chain agent backend over HTTP.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/ports"
)

// maxErrorBody caps how much of a failed response is read for its error message.
const maxErrorBody = 64 << 10

// Config captures the agent backend endpoint.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client implements ports.Agent against the backend's POST /query endpoint.
type Client struct {
	queryURL string
	client   *http.Client
}

var _ ports.Agent = (*Client)(nil)

// NewClient builds an agent client. BaseURL must be an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("agent base url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("agent base url %q must be an absolute http(s) url", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{queryURL: base + "/query", client: hc}, nil
}

type queryRequest struct {
	Question string `json:"question"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Ask posts the question and decodes {answer, type}. A request that runs past the timeout or the
// context deadline is reported as apperrors.ErrCodeTimeout. Other backend failures are reported
// as apperrors.ErrCodeUnavailable carrying the backend's error message when it sent one.
func (c *Client) Ask(ctx context.Context, question string) (ports.AgentAnswer, error) {
	body, err := json.Marshal(queryRequest{Question: question})
	if err != nil {
		return ports.AgentAnswer{}, fmt.Errorf("encode agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(body))
	if err != nil {
		return ports.AgentAnswer{}, fmt.Errorf("create agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.AgentAnswer{}, transportError(err, "agent request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.AgentAnswer{}, handleErrorResponse(resp)
	}

	var answer ports.AgentAnswer
	if decodeErr := json.NewDecoder(resp.Body).Decode(&answer); decodeErr != nil {
		return ports.AgentAnswer{}, transportError(decodeErr, "decode agent response")
	}
	return answer, nil
}

func transportError(err error, message string) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "agent request timed out")
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "agent request canceled")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, message)
	}
}

func handleErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := fmt.Sprintf("agent returned status %d", resp.StatusCode)
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
		msg = strings.TrimSpace(eb.Error)
	}
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeUnavailable,
		Message: msg,
		Cause:   fmt.Errorf("agent status %d", resp.StatusCode),
	}
}
