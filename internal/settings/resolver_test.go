package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/scoring"
)

type fakeStore struct {
	override *Override
	err      error
	calls    int
}

func (f *fakeStore) FindOverride(ctx context.Context, orgID uuid.UUID) (*Override, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.override, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaults() Defaults {
	return Defaults{
		ScoringMode:   scoring.ModeBoolean,
		FailurePolicy: scoring.FailAllCriteria,
	}
}

func strptr(s string) *string { return &s }

func TestMergeFieldLevel(t *testing.T) {
	t.Run("nil override keeps every default", func(t *testing.T) {
		resolved := merge(defaults(), nil)
		if resolved.ScoringMode != scoring.ModeBoolean {
			t.Errorf("ScoringMode = %s, want boolean", resolved.ScoringMode)
		}
		if resolved.FailurePolicy != scoring.FailAllCriteria {
			t.Errorf("FailurePolicy = %s, want all_criteria", resolved.FailurePolicy)
		}
	})

	t.Run("override wins per field, defaults fill the rest", func(t *testing.T) {
		resolved := merge(defaults(), &Override{
			ScoringMode: strptr("categorical"),
		})
		if resolved.ScoringMode != scoring.ModeCategorical {
			t.Errorf("ScoringMode = %s, want categorical", resolved.ScoringMode)
		}
		if resolved.FailurePolicy != scoring.FailAllCriteria {
			t.Errorf("FailurePolicy = %s, want default all_criteria", resolved.FailurePolicy)
		}
	})

	t.Run("template overrides carry into the snapshot", func(t *testing.T) {
		resolved := merge(defaults(), &Override{
			TemplateOverrides: map[string]string{"regulatory": "Assess {{.CriterionText}}"},
		})
		if resolved.TemplateOverrides["regulatory"] != "Assess {{.CriterionText}}" {
			t.Errorf("TemplateOverrides = %v, want regulatory template", resolved.TemplateOverrides)
		}
		if resolved.ScoringMode != scoring.ModeBoolean {
			t.Errorf("ScoringMode = %s, want boolean default", resolved.ScoringMode)
		}
	})

	t.Run("empty template map leaves no overrides", func(t *testing.T) {
		resolved := merge(defaults(), &Override{TemplateOverrides: map[string]string{}})
		if resolved.TemplateOverrides != nil {
			t.Errorf("TemplateOverrides = %v, want nil", resolved.TemplateOverrides)
		}
	})

	t.Run("unparseable value falls back to default", func(t *testing.T) {
		resolved := merge(defaults(), &Override{
			ScoringMode: strptr("quantum"),
		})
		if resolved.ScoringMode != scoring.ModeBoolean {
			t.Errorf("ScoringMode = %s, want boolean fallback", resolved.ScoringMode)
		}
	})
}

func TestResolverCaching(t *testing.T) {
	store := &fakeStore{override: &Override{ScoringMode: strptr("categorical")}}
	resolver := NewResolver(store, defaults(), time.Minute, discard())
	orgID := uuid.New()

	for range 3 {
		resolved, err := resolver.Resolve(context.Background(), orgID)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if resolved.ScoringMode != scoring.ModeCategorical {
			t.Errorf("ScoringMode = %s, want categorical", resolved.ScoringMode)
		}
	}

	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1 (cached)", store.calls)
	}
}

func TestResolverExpiredEntryReadsThrough(t *testing.T) {
	store := &fakeStore{}
	resolver := NewResolver(store, defaults(), -time.Second, discard())
	orgID := uuid.New()

	for range 2 {
		if _, err := resolver.Resolve(context.Background(), orgID); err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
	}

	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 (expired)", store.calls)
	}
}

func TestResolverMissingOverrideUsesDefaults(t *testing.T) {
	store := &fakeStore{err: ErrOverrideNotFound}
	resolver := NewResolver(store, defaults(), time.Minute, discard())

	resolved, err := resolver.Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if resolved.ScoringMode != scoring.ModeBoolean {
		t.Errorf("ScoringMode = %s, want boolean default", resolved.ScoringMode)
	}
}

func TestResolverStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	resolver := NewResolver(store, defaults(), time.Minute, discard())

	if _, err := resolver.Resolve(context.Background(), uuid.New()); err == nil {
		t.Error("Resolve should surface store failures")
	}
}

func TestResolverInvalidate(t *testing.T) {
	store := &fakeStore{}
	resolver := NewResolver(store, defaults(), time.Hour, discard())
	orgID := uuid.New()

	resolver.Resolve(context.Background(), orgID)
	resolver.Invalidate(orgID)
	resolver.Resolve(context.Background(), orgID)

	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after invalidation", store.calls)
	}
}
