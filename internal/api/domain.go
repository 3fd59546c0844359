package api

import (
	"github.com/attestd/attest/internal/criteria"
	"github.com/attestd/attest/internal/evaluations"
	"github.com/attestd/attest/internal/queue"
	"github.com/attestd/attest/internal/results"
	"github.com/attestd/attest/internal/settings"
	"github.com/attestd/attest/internal/usage"
)

// Domain holds all domain systems that comprise the API. The worker pool
// shares these instances, so coordination state (the settings cache, the
// queue) is consistent between the HTTP surface and processing.
type Domain struct {
	Criteria    criteria.System
	Evaluations evaluations.System
	Results     results.System
	Settings    *settings.Resolver
	Queue       queue.Queue
	Usage       usage.Recorder
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	criteriaSystem := criteria.New(db, runtime.Logger)

	resolver := settings.NewResolver(
		settings.NewStore(db, runtime.Logger),
		runtime.SettingsDefaults,
		runtime.SettingsTTL,
		runtime.Logger,
	)

	jobQueue := queue.New(db, runtime.Logger)

	evaluationsSystem := evaluations.New(
		db,
		criteriaSystem,
		resolver,
		jobQueue,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Criteria:    criteriaSystem,
		Evaluations: evaluationsSystem,
		Results:     results.New(db, runtime.Logger),
		Settings:    resolver,
		Queue:       jobQueue,
		Usage:       usage.New(db, runtime.Logger),
	}
}
