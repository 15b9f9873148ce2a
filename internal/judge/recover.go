package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kaptinlin/jsonrepair"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// judgmentSchema is the structural contract a recovered judgment must meet
// before we accept it. overall_score is the one hard requirement (downstream
// reporting keys off it); dimensions are validated when present.
const judgmentSchema = `{
	"type": "object",
	"required": ["overall_score"],
	"properties": {
		"overall_score": {"type": "number"},
		"relevance": {"$ref": "#/$defs/dimension"},
		"completeness": {"$ref": "#/$defs/dimension"},
		"actionability": {"$ref": "#/$defs/dimension"},
		"evidence_quality": {"$ref": "#/$defs/dimension"},
		"synthesis": {"$ref": "#/$defs/dimension"},
		"key_strengths": {"type": "array", "items": {"type": "string"}},
		"areas_for_improvement": {"type": "array", "items": {"type": "string"}}
	},
	"$defs": {
		"dimension": {
			"type": "object",
			"properties": {
				"score": {"type": "integer", "minimum": 1, "maximum": 5},
				"justification": {"type": "string"}
			}
		}
	}
}`

var compiledJudgmentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	var schemaValue any
	if err := json.Unmarshal([]byte(judgmentSchema), &schemaValue); err != nil {
		panic(fmt.Sprintf("judgment schema is not valid JSON: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("judgment.json", schemaValue); err != nil {
		panic(fmt.Sprintf("adding judgment schema resource: %v", err))
	}
	schema, err := compiler.Compile("judgment.json")
	if err != nil {
		panic(fmt.Sprintf("compiling judgment schema: %v", err))
	}
	return schema
}

// Recover extracts a structured judgment from the scoring model's raw reply.
// Three strategies are tried in fixed order: the interior of a json-tagged
// fenced block, the interior of any fenced block, then the raw text itself.
// Each candidate gets a strict JSON parse first and a repair pass second.
// The first candidate that parses and passes schema validation wins. When
// every strategy fails the raw text comes back as an Unparsed result; this
// function never fails.
func Recover(raw string) Result {
	type strategy struct {
		name      string
		candidate func(string) (string, bool)
	}

	strategies := []strategy{
		{"fenced_json", fencedCandidate("```json")},
		{"fenced", fencedCandidate("```")},
		{"raw", func(s string) (string, bool) { return s, true }},
	}

	for _, st := range strategies {
		candidate, ok := st.candidate(raw)
		if !ok {
			continue
		}
		if j, repaired, ok := parseCandidate(candidate); ok {
			return Result{Judgment: j, Strategy: st.name, Repaired: repaired}
		}
	}

	return Result{Unparsed: &Unparsed{ErrorKind: ErrorKindParseFailure, RawText: raw}}
}

// fencedCandidate returns an extractor for the interior of the first fenced
// block opened with the given marker.
func fencedCandidate(marker string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		start := strings.Index(s, marker)
		if start < 0 {
			return "", false
		}
		start += len(marker)
		end := strings.Index(s[start:], "```")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(s[start : start+end]), true
	}
}

// parseCandidate parses one candidate string into a Judgment: strict JSON
// first, then a jsonrepair pass for the near-miss output scoring models
// produce (trailing commas, single quotes, unquoted keys). The parsed value
// must pass schema validation before being decoded into the typed struct.
func parseCandidate(candidate string) (j *Judgment, repaired bool, ok bool) {
	value, repaired, ok := parseValue(candidate)
	if !ok {
		return nil, false, false
	}

	if err := compiledJudgmentSchema.Validate(value); err != nil {
		return nil, false, false
	}

	var out Judgment
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, false, false
	}
	if err := dec.Decode(value); err != nil {
		return nil, false, false
	}
	return &out, repaired, true
}

func parseValue(candidate string) (value any, repaired bool, ok bool) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return nil, false, false
	}

	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value, false, true
	}

	fixed, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return nil, false, false
	}
	if err := json.Unmarshal([]byte(fixed), &value); err != nil {
		return nil, false, false
	}
	return value, true, true
}
