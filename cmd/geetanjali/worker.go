package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/geetanjali/internal/config"
	"github.com/vnykmshr/geetanjali/internal/db"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process pending consultations",
	Long: `Poll the database for pending cases and run the consultation pipeline
on each. Cases are claimed atomically, so multiple workers can run side
by side without double-processing.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	runner, client, err := newRunner(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	log.Printf("[worker] started: concurrency=%d poll=%s", cfg.WorkerConcurrency, cfg.WorkerPoll)

	g := new(errgroup.Group)
	g.SetLimit(cfg.WorkerConcurrency)

	ticker := time.NewTicker(cfg.WorkerPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[worker] shutting down, draining in-flight runs")
			if err := g.Wait(); err != nil {
				return err
			}
			log.Println("[worker] stopped")
			return nil
		case <-ticker.C:
			claimed, err := database.ClaimPendingCases(ctx, cfg.WorkerConcurrency)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("[worker] claim failed: %v", err)
				continue
			}
			for i := range claimed {
				c := claimed[i]
				g.Go(func() error {
					// Run never returns errors; failures land in case status.
					result := runner.Run(ctx, &c)
					log.Printf("[worker] case=%s finished: status=%s", c.ID, result.Status)
					return nil
				})
			}
		}
	}
}
