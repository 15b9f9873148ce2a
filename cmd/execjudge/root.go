package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"execbrief/internal/config"
	"execbrief/internal/content"
	"execbrief/internal/judge"
)

var version = "dev"

var (
	scoringURL   string
	scoringModel string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execjudge <response_file> <question> <output_file>",
		Short: "Score a stored agent response against the evaluation rubric",
		Long: `Execjudge evaluates one stored agent response. It extracts the final
answer and retrieved evidence from the response file, asks the scoring model
to rate them against a five-dimension rubric, and writes the judgment record
to the output file as JSON.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(3),
		RunE:         judgeCommandE,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.Flags().StringVar(&scoringURL, "scoring-url", "", "Scoring endpoint base URL (default: EXECBRIEF_ACCOUNT_URL)")
	cmd.Flags().StringVar(&scoringModel, "scoring-model", "", "Scoring model ref (default: EXECBRIEF_SCORING_MODEL)")

	return cmd
}

func judgeCommandE(cmd *cobra.Command, args []string) error {
	responseFile, question, outputFile := args[0], args[1], args[2]

	cfg := config.Load()
	if scoringURL != "" {
		cfg.AccountURL = scoringURL
	}
	if scoringModel != "" {
		cfg.ScoringModel = scoringModel
	}
	if err := cfg.ValidateScoring(); err != nil {
		return err
	}

	raw, err := os.ReadFile(responseFile)
	if err != nil {
		return fmt.Errorf("reading response file: %w", err)
	}
	resp, err := content.ParseResponse(raw)
	if err != nil {
		return fmt.Errorf("parsing response file %s: %w", responseFile, err)
	}

	client := judge.NewScoringClient(judge.ScoringOptions{
		BaseURL: cfg.AccountURL,
		Token:   cfg.APIToken,
		Timeout: cfg.RequestTimeout,
	})
	evaluator := judge.NewEvaluator(client, cfg.ScoringModel)

	record, err := evaluator.Evaluate(cmd.Context(), question, responseFile, resp)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding judgment record: %w", err)
	}
	if err := os.WriteFile(outputFile, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	printSummary(record, outputFile)
	return nil
}

func printSummary(record *judge.Record, outputFile string) {
	fmt.Printf("Evaluation saved to %s\n", outputFile)
	if record.Judgment.Parsed() {
		fmt.Printf("Overall score: %.1f/5\n", record.Judgment.Judgment.OverallScore)
		return
	}
	fmt.Println("Scoring model reply could not be parsed; raw text preserved in the record.")
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
