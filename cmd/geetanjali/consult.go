package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/observability"
	"github.com/vnykmshr/geetanjali/internal/types"
)

var (
	consultTitle        string
	consultRole         string
	consultStakeholders []string
	consultHorizon      string
	consultVerbose      bool
)

var consultCmd = &cobra.Command{
	Use:   "consult [description]",
	Short: "Run a one-shot consultation",
	Long: `Run the full consultation pipeline on a dilemma given on the command
line, without touching the database. Useful for trying out providers and
prompts locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runConsult,
}

func init() {
	consultCmd.Flags().StringVar(&consultTitle, "title", "Consultation", "Short title for the dilemma")
	consultCmd.Flags().StringVar(&consultRole, "role", "", "Your role in the situation")
	consultCmd.Flags().StringSliceVar(&consultStakeholders, "stakeholders", nil, "People affected (comma-separated)")
	consultCmd.Flags().StringVar(&consultHorizon, "horizon", "", "Decision time horizon")
	consultCmd.Flags().BoolVarP(&consultVerbose, "verbose", "v", false, "Print retrieval and case details")
	rootCmd.AddCommand(consultCmd)
}

func runConsult(_ *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.ValidatePipeline(); err != nil {
		return err
	}

	ctx := context.Background()
	runner, client, err := newRunner(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sessionID := "cli"
	c := &types.Case{
		Title:        consultTitle,
		Description:  args[0],
		Role:         consultRole,
		Stakeholders: consultStakeholders,
		Horizon:      consultHorizon,
		SessionID:    &sessionID,
		Status:       types.StatusProcessing,
	}

	printer := observability.NewPrinter(os.Stdout)
	if consultVerbose {
		printer.PrintCase(c)
	}

	result := runner.Run(ctx, c)
	if consultVerbose {
		printer.PrintRetrievedVerses(result.Verses)
	}
	printer.PrintOutput(result.Output)

	if result.Status != types.StatusCompleted {
		return fmt.Errorf("consultation ended with status %s", result.Status)
	}
	return nil
}
