package api

import (
	"time"

	"github.com/attestd/attest/internal/config"
	"github.com/attestd/attest/internal/infrastructure"
	"github.com/attestd/attest/internal/settings"
	"github.com/attestd/attest/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination       pagination.Config
	SettingsDefaults settings.Defaults
	SettingsTTL      time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
		},
		Pagination:       cfg.API.Pagination,
		SettingsDefaults: cfg.Settings.Defaults(),
		SettingsTTL:      cfg.Settings.CacheTTLDuration(),
	}
}
