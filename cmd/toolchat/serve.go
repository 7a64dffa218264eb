package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Desarso/toolchat"
	"github.com/Desarso/toolchat/server"
	"github.com/Desarso/toolchat/stores"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := toolchat.LoadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.WithPort(servePort)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *toolchat.Config) error {
	logger := log.New(os.Stdout, "[Main] ", log.LstdFlags)

	tracer, err := cfg.NewTraceStore()
	if err != nil {
		return fmt.Errorf("opening trace store: %w", err)
	}
	defer tracer.Close()

	var retention *stores.Retention
	if cfg.TraceStore != "" {
		retention = stores.NewRetention(tracer, cfg.TraceRetention, cfg.TraceRetentionSchedule)
		if err := retention.Start(); err != nil {
			return err
		}
	}

	agent, err := cfg.NewAgent(ctx, tracer)
	if err != nil {
		return fmt.Errorf("building agent: %w", err)
	}
	pool := toolchat.NewWorkerPool(cfg.WorkerPoolSize)
	srv := server.New(agent, pool, cfg.RequestTimeout)

	logger.Printf("Model provider %s, %d tools, rate limit %d per %s",
		cfg.ModelProvider, len(agent.Tools), cfg.RateLimitMaxCalls, cfg.RateLimitWindow)
	if err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		return err
	}

	// Stop background work in parallel; each gets the same grace period.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var g errgroup.Group
	g.Go(func() error {
		if err := pool.Drain(shutdownCtx); err != nil {
			return fmt.Errorf("waiting for running agents: %w", err)
		}
		return nil
	})
	if retention != nil {
		g.Go(func() error {
			retention.Stop()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Printf("Shut down cleanly")
	return nil
}
