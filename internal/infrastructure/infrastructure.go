// Package infrastructure wires the shared dependencies every subsystem needs
// before domain assembly begins: the lifecycle coordinator, the process
// logger, and the database pool.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/attestd/attest/internal/config"
	"github.com/attestd/attest/pkg/database"
	"github.com/attestd/attest/pkg/lifecycle"
)

// Infrastructure carries the process-wide systems handed to each domain
// package during assembly.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// New builds the shared systems from configuration. Nothing is started here;
// Start registers them with the coordinator once assembly is complete.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
	}, nil
}

// Start hooks each shared system into the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
