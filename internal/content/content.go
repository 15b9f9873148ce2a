// Package content parses the weakly-typed agent response payload into typed
// content blocks and extracts answer text and search evidence from them.
package content

import (
	"encoding/json"
	"strings"
)

// Kind identifies the variant of a content block.
type Kind string

const (
	KindText       Kind = "text"
	KindToolResult Kind = "tool_result"
	// KindUnknown marks a block whose type tag we don't recognize. Unknown
	// blocks are preserved in order but ignored by the extractors.
	KindUnknown Kind = "unknown"
)

// Sentinels returned when a response carries no usable content. Downstream
// prompt rendering relies on these never being empty strings.
const (
	NoAnswerFound   = "no answer found"
	NoEvidenceFound = "no evidence found"
)

// EvidenceSeparator joins individual evidence passages.
const EvidenceSeparator = "\n\n---\n\n"

// searchToolMarker identifies tool results that carry search evidence. Matched
// as a substring of the tool name, so "case_search", "doc_search_v2" etc.
// all qualify.
const searchToolMarker = "search"

// SearchResult is one retrieved passage inside a tool result.
type SearchResult struct {
	Text string
}

// ToolResult is the payload of a tool-invocation block.
type ToolResult struct {
	Name    string
	Results []SearchResult
}

// Block is one unit of a response: plain text, a tool result, or an
// unrecognized block kept only for ordering.
type Block struct {
	Kind Kind
	Text string
	Tool *ToolResult
}

// Response is a parsed agent reply: the message id (used as the continuation
// pointer for the next turn) and its ordered content blocks.
type Response struct {
	MessageID string
	Blocks    []Block
}

// Wire shapes. Every field is optional; absent fields decode to zero values so
// extraction can never fail on a malformed payload.
type wireEnvelope struct {
	MessageID string `json:"message_id"`
	Message   struct {
		Content []json.RawMessage `json:"content"`
	} `json:"message"`
	// Stored response files carry content at the top level.
	Content []json.RawMessage `json:"content"`
}

type wireBlock struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	ToolResult struct {
		Name    string `json:"name"`
		Content []struct {
			JSON struct {
				SearchResults []struct {
					Text string `json:"text"`
				} `json:"search_results"`
			} `json:"json"`
		} `json:"content"`
	} `json:"tool_result"`
}

// ParseResponse decodes an agent reply or a stored response file. Only a
// top-level JSON syntax error is reported; missing or oddly-shaped fields
// degrade to empty blocks rather than failing the parse.
func ParseResponse(raw []byte) (*Response, error) {
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	items := env.Message.Content
	if len(items) == 0 {
		items = env.Content
	}

	resp := &Response{MessageID: env.MessageID}
	for _, item := range items {
		resp.Blocks = append(resp.Blocks, parseBlock(item))
	}
	return resp, nil
}

func parseBlock(raw json.RawMessage) Block {
	var wb wireBlock
	if err := json.Unmarshal(raw, &wb); err != nil {
		return Block{Kind: KindUnknown}
	}

	switch wb.Type {
	case "text":
		return Block{Kind: KindText, Text: wb.Text}
	case "tool_result":
		tool := &ToolResult{Name: wb.ToolResult.Name}
		for _, c := range wb.ToolResult.Content {
			for _, sr := range c.JSON.SearchResults {
				tool.Results = append(tool.Results, SearchResult{Text: sr.Text})
			}
		}
		return Block{Kind: KindToolResult, Tool: tool}
	default:
		return Block{Kind: KindUnknown}
	}
}

// FinalText returns the body of the last text block. The agent may narrate
// tool invocations before and after the definitive answer, so the last text
// block is treated as canonical.
func (r *Response) FinalText() string {
	for i := len(r.Blocks) - 1; i >= 0; i-- {
		if r.Blocks[i].Kind == KindText {
			return r.Blocks[i].Text
		}
	}
	return NoAnswerFound
}

// Evidence collects search passages from tool-result blocks in original
// order, block order first and within-block result order second, joined by
// EvidenceSeparator.
func (r *Response) Evidence() string {
	var passages []string
	for _, b := range r.Blocks {
		if b.Kind != KindToolResult || b.Tool == nil {
			continue
		}
		if !strings.Contains(b.Tool.Name, searchToolMarker) {
			continue
		}
		for _, sr := range b.Tool.Results {
			passages = append(passages, sr.Text)
		}
	}
	if len(passages) == 0 {
		return NoEvidenceFound
	}
	return strings.Join(passages, EvidenceSeparator)
}

// EvidenceSegments reports how many passages Evidence would join, for the
// judgment record metadata.
func (r *Response) EvidenceSegments() int {
	n := 0
	for _, b := range r.Blocks {
		if b.Kind == KindToolResult && b.Tool != nil && strings.Contains(b.Tool.Name, searchToolMarker) {
			n += len(b.Tool.Results)
		}
	}
	return n
}
