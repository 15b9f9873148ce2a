package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"execbrief/internal/judge"
)

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	scoringURL, scoringModel = "", ""

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestJudge_RequiresThreeArgs(t *testing.T) {
	require.Error(t, executeCommand(t))
	require.Error(t, executeCommand(t, "resp.json"))
	require.Error(t, executeCommand(t, "resp.json", "question"))
	require.Error(t, executeCommand(t, "a", "b", "c", "d"))
}

func TestJudge_MissingResponseFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	err := executeCommand(t, filepath.Join(t.TempDir(), "missing.json"), "q", out,
		"--scoring-url", "https://scoring.example.com")
	require.ErrorContains(t, err, "reading response file")
}

func TestJudge_MalformedResponseFile(t *testing.T) {
	dir := t.TempDir()
	responseFile := filepath.Join(dir, "resp.json")
	require.NoError(t, os.WriteFile(responseFile, []byte("{not json"), 0o644))

	err := executeCommand(t, responseFile, "q", filepath.Join(dir, "out.json"),
		"--scoring-url", "https://scoring.example.com")
	require.ErrorContains(t, err, "parsing response file")
}

func TestJudge_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := "```json\n" + `{
			"relevance": {"score": 5, "justification": "on topic"},
			"completeness": {"score": 4, "justification": "good"},
			"actionability": {"score": 4, "justification": "clear"},
			"evidence_quality": {"score": 5, "justification": "specific"},
			"synthesis": {"score": 4, "justification": "coherent"},
			"overall_score": 4.4,
			"key_strengths": ["grounded"],
			"areas_for_improvement": ["depth"]
		}` + "\n```"
		json.NewEncoder(w).Encode(map[string]string{"result_text": reply})
	}))
	defer srv.Close()

	dir := t.TempDir()
	responseFile := filepath.Join(dir, "resp.json")
	stored := `{
		"content": [
			{"type": "tool_result", "tool_result": {"name": "case_search", "content": [
				{"type": "json", "json": {"search_results": [{"text": "Retailer cut costs 20%"}]}}
			]}},
			{"type": "text", "text": "Cost reduction was the main driver."}
		]
	}`
	require.NoError(t, os.WriteFile(responseFile, []byte(stored), 0o644))

	outputFile := filepath.Join(dir, "out.json")
	err := executeCommand(t, responseFile, "What drove savings?", outputFile,
		"--scoring-url", srv.URL, "--scoring-model", "scorer-test")
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var record judge.Record
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "What drove savings?", record.Question)
	require.Equal(t, responseFile, record.SourceRef)
	require.Equal(t, 1, record.Metadata.EvidenceSegments)
	require.NotEmpty(t, record.ID)

	var round map[string]any
	require.NoError(t, json.Unmarshal(data, &round))
	judgment := round["judgment"].(map[string]any)
	require.InDelta(t, 4.4, judgment["overall_score"].(float64), 1e-9)
}
