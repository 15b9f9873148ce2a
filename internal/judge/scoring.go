package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ScoringCallError reports a failed scoring call: transport failure, timeout,
// or non-2xx status. Fatal to the evaluation; there is no automatic retry.
type ScoringCallError struct {
	Status int
	Body   string
	Err    error
}

func (e *ScoringCallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("scoring call failed: status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("scoring call failed: %v", e.Err)
}

func (e *ScoringCallError) Unwrap() error { return e.Err }

// Completer is the scoring capability: one prompt in, raw model text out.
type Completer interface {
	Complete(ctx context.Context, modelRef, prompt string) (string, error)
}

// ScoringClient calls the scoring completion endpoint over HTTP.
type ScoringClient struct {
	baseURL string
	token   string
	hc      *http.Client
	logger  *slog.Logger
}

// ScoringOptions configures a ScoringClient.
type ScoringOptions struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewScoringClient creates a scoring client. A zero timeout falls back to
// 120s; judge completions run long.
func NewScoringClient(opts ScoringOptions) *ScoringClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type scoringRequest struct {
	ModelRef string `json:"model_ref"`
	Prompt   string `json:"prompt"`
}

type scoringResponse struct {
	ResultText string `json:"result_text"`
}

// Complete implements [Completer].
func (c *ScoringClient) Complete(ctx context.Context, modelRef, prompt string) (string, error) {
	data, err := json.Marshal(scoringRequest{ModelRef: modelRef, Prompt: prompt})
	if err != nil {
		return "", &ScoringCallError{Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scoring:complete", bytes.NewReader(data))
	if err != nil {
		return "", &ScoringCallError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &ScoringCallError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ScoringCallError{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ScoringCallError{Status: resp.StatusCode, Body: string(body)}
	}

	var sr scoringResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", &ScoringCallError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	c.logger.Debug("scoring complete", "model_ref", modelRef, "result_chars", len(sr.ResultText))
	return sr.ResultText, nil
}
