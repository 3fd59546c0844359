package usage_test

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/usage"
)

// brokenConnector stands in for an unreachable database: every connection
// attempt fails before a statement can run.
type brokenConnector struct{}

func (brokenConnector) Connect(context.Context) (driver.Conn, error) {
	return nil, errors.New("connection refused")
}

func (brokenConnector) Driver() driver.Driver { return nil }

func brokenRecorder(buf *bytes.Buffer) (usage.Recorder, *sql.DB) {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	db := sql.OpenDB(brokenConnector{})
	return usage.New(db, logger), db
}

func TestLogUsageSwallowsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	rec, db := brokenRecorder(&buf)
	t.Cleanup(func() { db.Close() })

	rec.LogUsage(context.Background(), usage.Entry{
		EvaluationID: uuid.New(),
		CriterionID:  uuid.New(),
		PromptTokens: 120,
		Latency:      time.Millisecond,
		Success:      true,
	})

	if !strings.Contains(buf.String(), "usage log write failed") {
		t.Errorf("expected a fallback log line, got %q", buf.String())
	}
}

func TestLogErrorSwallowsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	rec, db := brokenRecorder(&buf)
	t.Cleanup(func() { db.Close() })

	critID := uuid.New()
	rec.LogError(context.Background(), usage.Failure{
		EvaluationID: uuid.New(),
		CriterionID:  &critID,
		Category:     "rate_limit_exceeded",
		Message:      "429 from provider",
		Attempt:      2,
	})

	if !strings.Contains(buf.String(), "error log write failed") {
		t.Errorf("expected a fallback log line, got %q", buf.String())
	}
}
