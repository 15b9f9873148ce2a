// Package agent is the HTTP transport for the conversational analytical
// agent: session creation and single request/response turns. It holds no
// conversation state; the caller threads the continuation id from one turn's
// reply into the next turn's request.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"execbrief/internal/content"
)

// FirstTurnContinuation is the continuation id for the first turn of a
// session, before any reply exists to continue from.
const FirstTurnContinuation = "0"

// SessionCreationError reports a failed session create call.
type SessionCreationError struct {
	Err error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("creating session: %v", e.Err)
}

func (e *SessionCreationError) Unwrap() error { return e.Err }

// TurnError reports a failed turn call. Status is zero for transport-level
// failures (including timeouts); otherwise it carries the non-2xx status and
// response body.
type TurnError struct {
	Status int
	Body   string
	Err    error
}

func (e *TurnError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("agent turn failed: status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("agent turn failed: %v", e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// TurnResult is one agent reply: the message id to continue from and the
// ordered content blocks.
type TurnResult struct {
	MessageID string
	Blocks    []content.Block
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Token    string
	AgentRef string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Client issues session and turn calls against the agent API.
type Client struct {
	baseURL  string
	token    string
	agentRef string
	hc       *http.Client
	logger   *slog.Logger
}

// NewClient creates an agent API client. The request timeout is a required
// knob; a zero value falls back to 60s.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		agentRef: opts.AgentRef,
		hc:       &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type createSessionRequest struct {
	OriginApplication string `json:"origin_application"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession opens a new conversation scope. There is no retry at this
// layer; retry policy belongs to the per-subject boundary upstream.
func (c *Client) CreateSession(ctx context.Context, originTag string) (string, error) {
	body, status, err := c.post(ctx, c.baseURL+"/sessions", createSessionRequest{OriginApplication: originTag})
	if err != nil {
		return "", &SessionCreationError{Err: err}
	}
	if status < 200 || status >= 300 {
		return "", &SessionCreationError{Err: fmt.Errorf("status %d: %s", status, string(body))}
	}

	var resp createSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &SessionCreationError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if resp.SessionID == "" {
		return "", &SessionCreationError{Err: errors.New("response carried no session id")}
	}

	c.logger.Debug("created session", "session_id", resp.SessionID)
	return resp.SessionID, nil
}

type runTurnRequest struct {
	SessionID      string        `json:"session_id"`
	ContinuationID string        `json:"continuation_id"`
	Messages       []turnMessage `json:"messages"`
}

type turnMessage struct {
	Role    string        `json:"role"`
	Content []messagePart `json:"content"`
}

type messagePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RunTurn issues one request carrying the prompt as a single user message.
// The caller supplies the continuation id; use FirstTurnContinuation for the
// opening turn.
func (c *Client) RunTurn(ctx context.Context, sessionID, continuationID, prompt string) (*TurnResult, error) {
	req := runTurnRequest{
		SessionID:      sessionID,
		ContinuationID: continuationID,
		Messages: []turnMessage{{
			Role:    "user",
			Content: []messagePart{{Type: "text", Text: prompt}},
		}},
	}

	url := fmt.Sprintf("%s/agents/%s:run", c.baseURL, c.agentRef)
	body, status, err := c.post(ctx, url, req)
	if err != nil {
		return nil, &TurnError{Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &TurnError{Status: status, Body: string(body)}
	}

	parsed, err := content.ParseResponse(body)
	if err != nil {
		return nil, &TurnError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	c.logger.Debug("turn complete",
		"session_id", sessionID,
		"continuation_id", continuationID,
		"message_id", parsed.MessageID,
		"blocks", len(parsed.Blocks))

	return &TurnResult{MessageID: parsed.MessageID, Blocks: parsed.Blocks}, nil
}

// post sends a JSON request and returns the raw body and status. Transport
// failures (connection errors, timeouts) come back as err with a zero status.
func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
