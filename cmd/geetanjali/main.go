// Package main provides the entry point for the Geetanjali service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geetanjali",
	Short: "Geetanjali ethical guidance service",
	Long:  "Geetanjali offers guidance on ethical dilemmas grounded in Bhagavad Geeta verses, via a REST API and a consultation pipeline.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
