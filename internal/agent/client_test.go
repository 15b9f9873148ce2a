package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"execbrief/internal/content"
)

func TestCreateSession(t *testing.T) {
	var gotOrigin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/sessions", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotOrigin = req["origin_application"]

		json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Token: "tok", AgentRef: "reviewer"})
	id, err := c.CreateSession(context.Background(), "weekly_report")
	require.NoError(t, err)
	require.Equal(t, "sess-1", id)
	require.Equal(t, "weekly_report", gotOrigin)
}

func TestCreateSession_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.CreateSession(context.Background(), "weekly_report")

	var scErr *SessionCreationError
	require.ErrorAs(t, err, &scErr)
}

func TestRunTurn_WireShape(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agents/reviewer:run", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"message_id": "msg-7",
			"message": map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "section text"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, AgentRef: "reviewer"})
	res, err := c.RunTurn(context.Background(), "sess-1", "msg-6", "analyze performance")
	require.NoError(t, err)
	require.Equal(t, "msg-7", res.MessageID)
	require.Len(t, res.Blocks, 1)
	require.Equal(t, content.KindText, res.Blocks[0].Kind)

	// Continuation id and single user message must appear in the request body.
	require.Equal(t, "sess-1", gotBody["session_id"])
	require.Equal(t, "msg-6", gotBody["continuation_id"])
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	require.Equal(t, "user", msg["role"])
	parts := msg["content"].([]any)
	part := parts[0].(map[string]any)
	require.Equal(t, "text", part["type"])
	require.Equal(t, "analyze performance", part["text"])
}

func TestRunTurn_NonOKCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, AgentRef: "reviewer"})
	_, err := c.RunTurn(context.Background(), "s", FirstTurnContinuation, "p")

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	require.Equal(t, http.StatusTooManyRequests, turnErr.Status)
	require.Contains(t, turnErr.Body, "slow down")
}

func TestRunTurn_TimeoutIsTurnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, AgentRef: "reviewer", Timeout: 20 * time.Millisecond})
	_, err := c.RunTurn(context.Background(), "s", FirstTurnContinuation, "p")

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	require.Zero(t, turnErr.Status)
}

func TestRunTurn_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{BaseURL: srv.URL, AgentRef: "reviewer"})
	_, err := c.RunTurn(ctx, "s", FirstTurnContinuation, "p")

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	require.True(t, errors.Is(err, context.Canceled))
}
