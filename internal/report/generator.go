// Package report drives the agent through an ordered list of section prompts
// within a single conversation session and assembles the replies into a
// multi-section subject report.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"execbrief/internal/agent"
	"execbrief/internal/content"
)

// TurnRunner is the transport surface the generator needs: open a session,
// run one turn. Satisfied by [agent.Client].
type TurnRunner interface {
	CreateSession(ctx context.Context, originTag string) (string, error)
	RunTurn(ctx context.Context, sessionID, continuationID, prompt string) (*agent.TurnResult, error)
}

// Sections maps section name to generated text. It is complete when every
// configured SectionSpec has an entry; a sentinel entry counts (an empty
// extraction is a soft failure, not a fatal one).
type Sections map[string]string

// Generator produces one report per Generate call. Each call owns a fresh
// session; sessions are never shared or reused across subjects.
type Generator struct {
	runner    TurnRunner
	sections  []SectionSpec
	originTag string
	logger    *slog.Logger
}

// NewGenerator creates a report generator over the given transport and
// ordered section list.
func NewGenerator(runner TurnRunner, sections []SectionSpec, originTag string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		runner:    runner,
		sections:  sections,
		originTag: originTag,
		logger:    logger,
	}
}

// Sections returns the generator's section specs in generation order.
func (g *Generator) Sections() []SectionSpec {
	return g.sections
}

// Generate runs every section strictly in order within one session. Turn n+1
// continues from turn n's message id, so the agent retains context across
// sections; the first turn uses the sentinel continuation id. Turn and
// session failures abort the subject; extraction anomalies are recorded as
// sentinel text and logged, and generation continues.
func (g *Generator) Generate(ctx context.Context, subjectID string, periodStart, periodEnd time.Time) (Sections, error) {
	sessionID, err := g.runner.CreateSession(ctx, g.originTag)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("session open", "subject_id", subjectID, "session_id", sessionID)

	sections := make(Sections, len(g.sections))
	continuationID := agent.FirstTurnContinuation

	for _, spec := range g.sections {
		prompt, err := spec.Render(subjectID, periodStart, periodEnd)
		if err != nil {
			return nil, err
		}

		result, err := g.runner.RunTurn(ctx, sessionID, continuationID, prompt)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", spec.Name, err)
		}

		resp := &content.Response{MessageID: result.MessageID, Blocks: result.Blocks}
		text := resp.FinalText()
		if text == content.NoAnswerFound {
			g.logger.Warn("no answer text in agent reply",
				"subject_id", subjectID,
				"section", spec.Name,
				"message_id", result.MessageID)
		}
		sections[spec.Name] = text

		// Thread this reply into the next turn.
		if result.MessageID != "" {
			continuationID = result.MessageID
		}

		g.logger.Debug("section generated",
			"subject_id", subjectID,
			"section", spec.Name,
			"chars", len(text))
	}

	return sections, nil
}
