package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store reads persisted org overrides. Implemented by the repository;
// faked in tests.
type Store interface {
	FindOverride(ctx context.Context, orgID uuid.UUID) (*Override, error)
}

// ErrOverrideNotFound signals an org with no override record; resolution
// proceeds with system defaults.
var ErrOverrideNotFound = errors.New("org override not found")

// Resolver merges system defaults with org overrides, caching resolved
// snapshots per org id for a short TTL. A cache miss triggers a synchronous
// store read.
type Resolver struct {
	store    Store
	defaults Defaults
	ttl      time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[uuid.UUID]cacheEntry
}

type cacheEntry struct {
	resolved Resolved
	expires  time.Time
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store, defaults Defaults, ttl time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger.With("system", "settings"),
		cache:    make(map[uuid.UUID]cacheEntry),
	}
}

// Resolve returns the merged configuration for an organization.
// Every field is populated: overrides win field-by-field, defaults fill the
// rest. A missing override record is not an error.
func (r *Resolver) Resolve(ctx context.Context, orgID uuid.UUID) (Resolved, error) {
	r.mu.Lock()
	if entry, ok := r.cache[orgID]; ok && time.Now().Before(entry.expires) {
		r.mu.Unlock()
		return entry.resolved, nil
	}
	r.mu.Unlock()

	override, err := r.store.FindOverride(ctx, orgID)
	if err != nil && !errors.Is(err, ErrOverrideNotFound) {
		return Resolved{}, err
	}

	resolved := merge(r.defaults, override)

	r.mu.Lock()
	r.cache[orgID] = cacheEntry{
		resolved: resolved,
		expires:  time.Now().Add(r.ttl),
	}
	r.mu.Unlock()

	return resolved, nil
}

// Invalidate drops the cached snapshot for an org, forcing the next Resolve
// to read through.
func (r *Resolver) Invalidate(orgID uuid.UUID) {
	r.mu.Lock()
	delete(r.cache, orgID)
	r.mu.Unlock()
}
