package judge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_Substitution(t *testing.T) {
	prompt := BuildPrompt("What drove Q3 adoption?", "Three deployments stood out.", "case A\n\n---\n\ncase B")

	require.Contains(t, prompt, "**User Question:** What drove Q3 adoption?")
	require.Contains(t, prompt, "**Agent Response:** Three deployments stood out.")
	require.Contains(t, prompt, "case A\n\n---\n\ncase B")
	require.NotContains(t, prompt, "%QUESTION%")
	require.NotContains(t, prompt, "%ANSWER%")
	require.NotContains(t, prompt, "%EVIDENCE%")
}

func TestBuildPrompt_RubricDimensions(t *testing.T) {
	prompt := BuildPrompt("q", "a", "e")

	for _, dim := range []string{"Relevance", "Completeness", "Actionability", "Evidence Quality", "Synthesis"} {
		require.Contains(t, prompt, dim)
	}
	// Anchor descriptions at both ends of the scale.
	require.Contains(t, prompt, "5: Perfectly relevant, directly addresses query")
	require.Contains(t, prompt, "1: No synthesis, just raw data")
	// The reply-format instruction names every expected key.
	for _, key := range []string{"overall_score", "key_strengths", "areas_for_improvement", "evidence_quality"} {
		require.Contains(t, prompt, key)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("q", "a", "e")
	b := BuildPrompt("q", "a", "e")
	require.Equal(t, a, b)
	require.Equal(t, 1, strings.Count(a, "**User Question:**"))
}
