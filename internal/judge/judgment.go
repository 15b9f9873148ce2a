// Package judge builds the rubric prompt, invokes the scoring model, and
// recovers a structured judgment from its free-text reply.
package judge

import "encoding/json"

// ErrorKindParseFailure marks an UnparsedJudgment.
const ErrorKindParseFailure = "parse_failure"

// Dimension is one scored rubric dimension.
type Dimension struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// Judgment is a well-formed structured evaluation across the five rubric
// dimensions.
type Judgment struct {
	Relevance           Dimension `json:"relevance"`
	Completeness        Dimension `json:"completeness"`
	Actionability       Dimension `json:"actionability"`
	EvidenceQuality     Dimension `json:"evidence_quality"`
	Synthesis           Dimension `json:"synthesis"`
	OverallScore        float64   `json:"overall_score"`
	KeyStrengths        []string  `json:"key_strengths"`
	AreasForImprovement []string  `json:"areas_for_improvement"`
}

// Unparsed is the recovered-error variant: the scoring model replied, but
// nothing in the reply could be read as structured data. It carries the raw
// text so nothing is lost.
type Unparsed struct {
	ErrorKind string `json:"error"`
	RawText   string `json:"raw_response"`
}

// Result is exactly one of Judgment or Unparsed. Strategy names the recovery
// path that produced the judgment ("fenced_json", "fenced", "raw"); Repaired
// reports whether a JSON repair pass was needed.
type Result struct {
	Judgment *Judgment `json:"-"`
	Unparsed *Unparsed `json:"-"`
	Strategy string    `json:"-"`
	Repaired bool      `json:"-"`
}

// Parsed reports whether recovery produced a structured judgment.
func (r Result) Parsed() bool {
	return r.Judgment != nil
}

// MarshalJSON writes whichever variant is populated, matching the persisted
// judgment record shape.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Judgment != nil {
		return json.Marshal(r.Judgment)
	}
	return json.Marshal(r.Unparsed)
}

// Metadata is the run context attached to every persisted judgment,
// regardless of parse success.
type Metadata struct {
	AnswerLength     int    `json:"agent_response_length"`
	EvidenceSegments int    `json:"num_case_studies"`
	Strategy         string `json:"recovery_strategy,omitempty"`
	Repaired         bool   `json:"json_repaired,omitempty"`
}

// Record is the persisted evaluation envelope.
type Record struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	SourceRef string   `json:"source_reference"`
	Judgment  Result   `json:"judgment"`
	Metadata  Metadata `json:"metadata"`
}
