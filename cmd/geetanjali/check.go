package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/geetanjali/internal/moderation"
	"github.com/vnykmshr/geetanjali/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check text against the content blocklist",
	Long:  `Run the submission blocklist on a piece of text and report the classification.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	result := moderation.NewBlocklist(true).Check(args[0])
	observability.NewPrinter(os.Stdout).PrintModeration(result)
	if result.Blocked {
		return fmt.Errorf("content blocked: %s", result.Violation)
	}
	return nil
}
