package repository

import (
	"context"
	"fmt"

	"github.com/adsproxy/adsproxy/internal/model"
)

// maxErrorMessage caps the stored upstream error text.
const maxErrorMessage = 2000

// ReportRunRepository stores report run audit entries.
type ReportRunRepository struct {
	repo *Repository
}

// NewReportRunRepository creates a new ReportRunRepository.
func NewReportRunRepository(repo *Repository) *ReportRunRepository {
	return &ReportRunRepository{repo: repo}
}

// RecordRun inserts one run. Re-recording the same ID is a no-op.
func (r *ReportRunRepository) RecordRun(ctx context.Context, run *model.ReportRun) error {
	query := `
		INSERT INTO report_runs (
			id, kind, customer_hash, date_range, status, row_count,
			error_message, duration_ms, request_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.repo.pool.Exec(ctx, query,
		run.ID,
		string(run.Kind),
		run.CustomerHash,
		string(run.DateRange),
		string(run.Status),
		run.RowCount,
		nullableString(truncate(run.ErrorMessage, maxErrorMessage)),
		run.Duration.Milliseconds(),
		nullableString(run.RequestID),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report run: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary.
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
