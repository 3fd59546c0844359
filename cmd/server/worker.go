package main

import (
	"fmt"

	"github.com/attestd/attest/internal/config"
	"github.com/attestd/attest/internal/inference"
	"github.com/attestd/attest/internal/infrastructure"
	"github.com/attestd/attest/internal/prompts"
	"github.com/attestd/attest/internal/retrieval"
	"github.com/attestd/attest/internal/worker"
)

// startWorkers wires the processing side over the same domain systems the
// API serves from, and ties the pool and sweeper into the lifecycle.
func startWorkers(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	modules *Modules,
) error {
	client, err := inference.New(&cfg.Inference)
	if err != nil {
		return fmt.Errorf("inference client init failed: %w", err)
	}

	orch := worker.NewOrchestrator(
		cfg.Worker,
		retrieval.NewHTTP(&cfg.Retrieval),
		prompts.NewRenderer(nil),
		client,
		&cfg.Inference,
		modules.Domain.Results,
		modules.Domain.Usage,
		modules.Domain.Settings,
		cfg.Retrieval.TopK,
		infra.Logger,
	)

	pool := worker.NewPool(
		cfg.Worker,
		modules.Domain.Queue,
		modules.Domain.Evaluations,
		modules.Domain.Criteria,
		orch,
		modules.Domain.Results,
		modules.Domain.Usage,
		infra.Logger,
	)

	sweeper := worker.NewSweeper(cfg.Worker, modules.Domain.Evaluations, infra.Logger)

	lc := infra.Lifecycle
	ctx := lc.Context()

	drained := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(drained)
	}()

	lc.OnShutdown(func() {
		<-ctx.Done()
		<-drained
	})

	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("sweeper start failed: %w", err)
	}
	lc.OnShutdown(func() {
		<-ctx.Done()
		sweeper.Stop()
	})

	return nil
}
