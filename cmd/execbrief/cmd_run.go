package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"execbrief/internal/agent"
	"execbrief/internal/config"
	"execbrief/internal/dataset"
	"execbrief/internal/models"
	"execbrief/internal/orchestration"
	"execbrief/internal/report"
	"execbrief/internal/warehouse"
)

var (
	runMode         string
	ownerID         string
	subjectID       string
	runWorkers      int
	sectionsPath    string
	periodDays      int
	assignmentsPath string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run report generation for assigned subjects",
		Long: `Run report generation across owner assignments read from the warehouse.

Mode "all" processes every (owner, subject) pair; mode "single" processes
one pair and requires both --owner-id and --subject-id.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runMode, "mode", "all", "Run mode: all, single")
	cmd.Flags().StringVar(&ownerID, "owner-id", "", "Owner id (required with --mode single)")
	cmd.Flags().StringVar(&subjectID, "subject-id", "", "Subject id (required with --mode single)")
	cmd.Flags().IntVar(&runWorkers, "workers", 0, "Number of concurrent subject workers (default: sequential)")
	cmd.Flags().StringVar(&sectionsPath, "sections", "", "YAML file overriding the built-in report sections")
	cmd.Flags().IntVar(&periodDays, "period-days", 7, "Length of the reporting period in days, ending today")
	cmd.Flags().StringVar(&assignmentsPath, "assignments-file", "", "CSV file of owner assignments, bypassing the warehouse assignment table")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	switch runMode {
	case "all":
	case "single":
		if ownerID == "" || subjectID == "" {
			return fmt.Errorf("--mode single requires both --owner-id and --subject-id")
		}
	default:
		return fmt.Errorf("unknown mode %q (expected all or single)", runMode)
	}
	if periodDays < 1 {
		return fmt.Errorf("--period-days must be at least 1, got %d", periodDays)
	}

	cfg := config.Load()
	if runWorkers > 0 {
		cfg.Workers = runWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sections := report.DefaultSections()
	if sectionsPath != "" {
		loaded, err := report.LoadSections(sectionsPath)
		if err != nil {
			return fmt.Errorf("loading sections: %w", err)
		}
		sections = loaded
	}

	ctx := cmd.Context()

	store, err := warehouse.Open(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	assignments, err := loadAssignments(cmd, store)
	if err != nil {
		return err
	}

	client := agent.NewClient(agent.Options{
		BaseURL:  cfg.AccountURL,
		Token:    cfg.APIToken,
		AgentRef: cfg.AgentRef,
		Timeout:  cfg.RequestTimeout,
	})
	generator := report.NewGenerator(client, sections, cfg.OriginTag, nil)

	runner := orchestration.NewRunner(generator, store,
		orchestration.WithWorkers(cfg.Workers))

	periodEnd := time.Now()
	periodStart := periodEnd.AddDate(0, 0, -periodDays)

	summary, err := runner.Run(ctx, assignments, periodStart, periodEnd)
	orchestration.PrintSummary(summary)
	if err != nil {
		return err
	}
	if summary.Failed() > 0 {
		return &BatchFailureError{Failed: summary.Failed()}
	}
	return nil
}

// loadAssignments reads the owner books for this run, from a CSV file when
// one is given and from the warehouse otherwise. Single mode narrows one
// owner's book down to the one requested subject.
func loadAssignments(cmd *cobra.Command, store *warehouse.Store) ([]models.Assignment, error) {
	ctx := cmd.Context()

	var assignments []models.Assignment
	var err error
	switch {
	case assignmentsPath != "":
		assignments, err = dataset.LoadAssignments(assignmentsPath)
	case runMode == "single":
		var a *models.Assignment
		if a, err = store.Assignment(ctx, ownerID); err == nil {
			assignments = []models.Assignment{*a}
		}
	default:
		assignments, err = store.Assignments(ctx)
	}
	if err != nil {
		return nil, err
	}

	if runMode == "single" {
		return narrowToSingle(assignments)
	}

	if len(assignments) == 0 {
		fmt.Println("No owner assignments found; nothing to do.")
	}
	return assignments, nil
}

func narrowToSingle(assignments []models.Assignment) ([]models.Assignment, error) {
	for _, a := range assignments {
		if a.OwnerID != ownerID {
			continue
		}
		for _, id := range a.SubjectIDs {
			if id == subjectID {
				a.SubjectIDs = []string{subjectID}
				return []models.Assignment{a}, nil
			}
		}
		return nil, fmt.Errorf("subject %s is not assigned to owner %s", subjectID, ownerID)
	}
	return nil, fmt.Errorf("owner %s has no assignment", ownerID)
}
