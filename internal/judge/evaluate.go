package judge

import (
	"context"

	"github.com/google/uuid"

	"execbrief/internal/content"
)

// Evaluator runs one full evaluation: extract answer and evidence from a
// stored agent response, score it against the rubric, and recover the
// judgment.
type Evaluator struct {
	completer Completer
	modelRef  string
}

// NewEvaluator creates an evaluator over the given scoring capability.
func NewEvaluator(completer Completer, modelRef string) *Evaluator {
	return &Evaluator{completer: completer, modelRef: modelRef}
}

// Evaluate scores the agent response against the question and returns the
// persisted record envelope. A scoring-call failure is fatal and returned;
// an unparseable model reply is not, and comes back as an Unparsed judgment
// inside the record.
func (e *Evaluator) Evaluate(ctx context.Context, question, sourceRef string, resp *content.Response) (*Record, error) {
	answer := resp.FinalText()
	evidence := resp.Evidence()

	prompt := BuildPrompt(question, answer, evidence)
	rawReply, err := e.completer.Complete(ctx, e.modelRef, prompt)
	if err != nil {
		return nil, err
	}

	result := Recover(rawReply)

	return &Record{
		ID:        uuid.NewString(),
		Question:  question,
		SourceRef: sourceRef,
		Judgment:  result,
		Metadata: Metadata{
			AnswerLength:     len(answer),
			EvidenceSegments: resp.EvidenceSegments(),
			Strategy:         result.Strategy,
			Repaired:         result.Repaired,
		},
	}, nil
}
