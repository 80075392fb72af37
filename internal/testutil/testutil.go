// Package testutil holds helpers shared by package tests: database setup for
// integration tests, a fake Google Ads API and row fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adsproxy/adsproxy/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetReportRunsSchema drops and recreates the report_runs table for tests.
func ResetReportRunsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, name := range []string{"000001_report_runs.down.sql", "000001_report_runs.up.sql"} {
		sql, err := os.ReadFile(filepath.Join(root, "migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCredentials returns a complete credential set.
func NewTestCredentials() model.CredentialSet {
	return model.CredentialSet{
		CustomerID:     "123-456-7890",
		RefreshToken:   "1//test-refresh-token",
		DeveloperToken: "test-developer-token",
		ClientID:       "test-client.apps.googleusercontent.com",
		ClientSecret:   "test-client-secret",
	}
}

// NewTestReportRun creates a report run with sensible defaults.
func NewTestReportRun(t testing.TB, kind model.ReportKind) *model.ReportRun {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.ReportRun{
		ID:           UniqueID("run"),
		Kind:         kind,
		CustomerHash: "0123456789abcdef0123456789abcdef",
		DateRange:    kind.DefaultDateRange(),
		Status:       model.RunSucceeded,
		RowCount:     3,
		Duration:     250 * time.Millisecond,
		RequestID:    UniqueID("req"),
		CreatedAt:    now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
