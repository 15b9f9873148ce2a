package judge

import "strings"

// rubricPrompt is the fixed five-dimension evaluation rubric. The anchor
// descriptions give the scoring model calibration reference points, so they
// stay embedded in the prompt rather than living in config.
const rubricPrompt = `You are an expert evaluator assessing the quality of case study search results from an analytical review agent.

**User Question:** %QUESTION%

**Agent Response:** %ANSWER%

**Case Studies Retrieved (from tool results):** %EVIDENCE%

Evaluate the agent's response on these 5 dimensions (score 1-5 for each):

1. **Relevance** (1-5): How well do the retrieved case studies match the user's query?
   - 5: Perfectly relevant, directly addresses query
   - 4: Highly relevant with minor tangents
   - 3: Somewhat relevant but missing key aspects
   - 2: Partially relevant, significant gaps
   - 1: Largely irrelevant

2. **Completeness** (1-5): Does the response cover all important aspects of the query?
   - 5: Comprehensive, covers all aspects
   - 4: Covers most aspects, minor omissions
   - 3: Covers some aspects, notable gaps
   - 2: Minimal coverage
   - 1: Severely incomplete

3. **Actionability** (1-5): Are the insights practical and applicable?
   - 5: Highly actionable with clear next steps
   - 4: Actionable with good practical value
   - 3: Moderately actionable
   - 2: Limited actionability
   - 1: Not actionable

4. **Evidence Quality** (1-5): Are case studies specific with concrete details?
   - 5: Rich details, specific metrics, clear outcomes
   - 4: Good details with some specifics
   - 3: Moderate detail level
   - 2: Vague or generic
   - 1: No concrete details

5. **Synthesis** (1-5): How well are multiple case studies combined into coherent insights?
   - 5: Excellent synthesis, clear patterns identified
   - 4: Good synthesis with coherent themes
   - 3: Basic synthesis, some connections made
   - 2: Minimal synthesis, mostly listing
   - 1: No synthesis, just raw data

For each dimension:
- Provide a score (1-5)
- Provide a brief justification (1-2 sentences)

Also provide:
- **Overall Score** (average of 5 dimensions)
- **Key Strengths** (2-3 bullet points)
- **Areas for Improvement** (2-3 bullet points)

Return your evaluation in JSON format:
{
  "relevance": {"score": X, "justification": "..."},
  "completeness": {"score": X, "justification": "..."},
  "actionability": {"score": X, "justification": "..."},
  "evidence_quality": {"score": X, "justification": "..."},
  "synthesis": {"score": X, "justification": "..."},
  "overall_score": X.X,
  "key_strengths": ["...", "...", "..."],
  "areas_for_improvement": ["...", "...", "..."]
}
`

// BuildPrompt renders the rubric with the question, candidate answer, and
// retrieved evidence. Pure string substitution, deterministic.
func BuildPrompt(question, answer, evidence string) string {
	r := strings.NewReplacer(
		"%QUESTION%", question,
		"%ANSWER%", answer,
		"%EVIDENCE%", evidence,
	)
	return r.Replace(rubricPrompt)
}
