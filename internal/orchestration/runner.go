// Package orchestration runs report generation across every (owner, subject)
// pair in a batch. Each pair is a failure-isolation boundary: one subject's
// error is recorded and the batch moves on.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"execbrief/internal/models"
	"execbrief/internal/report"
)

// SubjectReporter generates one subject's sections. Satisfied by
// [report.Generator].
type SubjectReporter interface {
	Generate(ctx context.Context, subjectID string, periodStart, periodEnd time.Time) (report.Sections, error)
	Sections() []report.SectionSpec
}

// ReportStore persists completed reports.
type ReportStore interface {
	InsertReport(ctx context.Context, row models.ReportRow) error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers enables the bounded worker pool. Values below 2 keep the
// default sequential behavior.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner is the batch orchestrator.
type Runner struct {
	reporter SubjectReporter
	store    ReportStore
	workers  int
	logger   *slog.Logger
}

// NewRunner creates a batch runner over the given reporter and store.
func NewRunner(reporter SubjectReporter, store ReportStore, opts ...RunnerOption) *Runner {
	r := &Runner{
		reporter: reporter,
		store:    store,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// pair is one unit of batch work.
type pair struct {
	ownerID   string
	ownerName string
	subjectID string
}

// Run attempts a report for every valid (owner, subject) pair and returns
// the aggregate summary. It always returns a summary, even when every pair
// fails; the error is non-nil only when the context is cancelled mid-batch.
func (r *Runner) Run(ctx context.Context, assignments []models.Assignment, periodStart, periodEnd time.Time) (*models.BatchSummary, error) {
	summary := &models.BatchSummary{RunID: uuid.NewString()}

	var pairs []pair
	for _, a := range assignments {
		fmt.Printf("\nProcessing owner: %s (%s), region %s, %d assigned subject(s)\n",
			a.OwnerName, a.OwnerID, a.Region, len(a.SubjectIDs))
		for _, subjectID := range a.SubjectIDs {
			// Placeholder ids show up in the assignment data; skip them.
			if subjectID == "" || subjectID == "undefined" {
				continue
			}
			pairs = append(pairs, pair{ownerID: a.OwnerID, ownerName: a.OwnerName, subjectID: subjectID})
		}
	}
	summary.Attempted = len(pairs)

	if r.workers > 1 {
		return summary, r.runConcurrent(ctx, pairs, periodStart, periodEnd, summary)
	}
	return summary, r.runSequential(ctx, pairs, periodStart, periodEnd, summary)
}

func (r *Runner) runSequential(ctx context.Context, pairs []pair, periodStart, periodEnd time.Time, summary *models.BatchSummary) error {
	for _, p := range pairs {
		// Cancellation is honored at the pair boundary: finish the current
		// subject, never start the next one.
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.runPair(ctx, p, periodStart, periodEnd); err != nil {
			r.recordFailure(summary, p, err)
			continue
		}
		summary.Succeeded++
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, pairs []pair, periodStart, periodEnd time.Time, summary *models.BatchSummary) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Worker errors are recorded per pair, never returned: one
			// subject's failure must not cancel the group.
			if err := r.runPair(gctx, p, periodStart, periodEnd); err != nil {
				mu.Lock()
				r.recordFailure(summary, p, err)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			summary.Succeeded++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// runPair generates, formats, and persists one subject's report. Every error
// in here is caught by the caller and recorded as a SubjectFailure.
func (r *Runner) runPair(ctx context.Context, p pair, periodStart, periodEnd time.Time) error {
	fmt.Printf("  Generating report for subject %s...\n", p.subjectID)

	sections, err := r.reporter.Generate(ctx, p.subjectID, periodStart, periodEnd)
	if err != nil {
		return err
	}

	full := report.Format(p.subjectID, p.ownerName, periodStart, periodEnd, r.reporter.Sections(), sections)

	row := models.ReportRow{
		OwnerID:     p.ownerID,
		SubjectID:   p.subjectID,
		GeneratedAt: time.Now(),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Sections:    sections,
		FullReport:  full,
	}
	if err := r.store.InsertReport(ctx, row); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	fmt.Printf("  Report saved for subject %s\n", p.subjectID)
	return nil
}

func (r *Runner) recordFailure(summary *models.BatchSummary, p pair, err error) {
	r.logger.Error("subject report failed",
		"subject_id", p.subjectID,
		"owner_id", p.ownerID,
		"error", err)
	fmt.Printf("  Error generating report for %s: %v\n", p.subjectID, err)
	summary.Failures = append(summary.Failures, models.SubjectFailure{
		SubjectID: p.subjectID,
		OwnerID:   p.ownerID,
		Err:       err,
	})
}

// PrintSummary writes the end-of-batch completion summary.
func PrintSummary(s *models.BatchSummary) {
	fmt.Printf("\nCOMPLETED: %d/%d reports generated (%d failed)\n", s.Succeeded, s.Attempted, s.Failed())
	for _, f := range s.Failures {
		fmt.Printf("  failed: subject %s (owner %s): %v\n", f.SubjectID, f.OwnerID, f.Err)
	}
}
