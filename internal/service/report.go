// Package service provides the report pipeline: query construction, the
// upstream call, row normalization and run bookkeeping.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/adsproxy/adsproxy/internal/auth"
	"github.com/adsproxy/adsproxy/internal/metrics"
	"github.com/adsproxy/adsproxy/internal/model"
)

// Service errors.
var (
	ErrUnknownReportKind = errors.New("unknown report kind")
	ErrUpstreamTimeout   = errors.New("upstream request timed out")
)

// FetchError is returned by Run when the upstream call fails.
// Err is the upstream failure as reported by the fetcher.
type FetchError struct {
	Kind model.ReportKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s report: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// runLogTimeout bounds the write of a run log entry after the request is done.
const runLogTimeout = 2 * time.Second

// ReportFetcher executes a GAQL query against the advertising API.
type ReportFetcher interface {
	Search(ctx context.Context, creds model.CredentialSet, query string) ([]model.RawRow, error)
}

// RunLogger stores an audit entry per report run.
type RunLogger interface {
	RecordRun(ctx context.Context, run *model.ReportRun) error
}

// ReportService runs report queries and normalizes the results.
type ReportService struct {
	fetcher ReportFetcher
	runs    RunLogger
	metrics metrics.Recorder
	logger  *slog.Logger
	timeout time.Duration
}

// ReportServiceConfig holds ReportService dependencies.
// Runs and Metrics are optional.
type ReportServiceConfig struct {
	Fetcher ReportFetcher
	Runs    RunLogger
	Metrics metrics.Recorder
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewReportService creates a new ReportService.
func NewReportService(cfg ReportServiceConfig) *ReportService {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		fetcher: cfg.Fetcher,
		runs:    cfg.Runs,
		metrics: recorder,
		logger:  logger,
		timeout: cfg.Timeout,
	}
}

// Run builds the query for req, fetches the rows and normalizes them.
// It returns either every mapped record or an error, never a partial set.
func (s *ReportService) Run(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	query, err := BuildQuery(req.Kind, req.DateRange)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.fetcher.Search(callCtx, req.Credentials, query)
	elapsed := time.Since(start)
	s.metrics.ObserveUpstreamDuration(string(req.Kind), elapsed)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s: %w", ErrUpstreamTimeout, s.timeout, err)
		}
		s.metrics.IncReportRun(string(req.Kind), string(model.RunFailed))
		s.recordRun(ctx, req, model.RunFailed, 0, err, elapsed)
		return nil, &FetchError{Kind: req.Kind, Err: err}
	}

	report := Normalize(req.Kind, rows)

	s.metrics.IncReportRun(string(req.Kind), string(model.RunSucceeded))
	s.metrics.ObserveReportRows(string(req.Kind), report.Len())
	s.recordRun(ctx, req, model.RunSucceeded, report.Len(), nil, elapsed)

	s.logger.Info("report_completed",
		slog.String("kind", string(req.Kind)),
		slog.String("date_range", string(req.DateRange)),
		slog.Int("rows", report.Len()),
		slog.Float64("upstream_ms", float64(elapsed.Microseconds())/1000),
		slog.String("request_id", req.RequestID),
	)

	return report, nil
}

// recordRun writes the audit entry. Failures are logged and never affect
// the response.
func (s *ReportService) recordRun(ctx context.Context, req model.ReportRequest, status model.RunStatus, rows int, runErr error, elapsed time.Duration) {
	if s.runs == nil {
		return
	}

	run := &model.ReportRun{
		ID:           ulid.Make().String(),
		Kind:         req.Kind,
		CustomerHash: auth.QuickHash(req.Credentials.CustomerID),
		DateRange:    req.DateRange,
		Status:       status,
		RowCount:     rows,
		Duration:     elapsed,
		RequestID:    req.RequestID,
		CreatedAt:    time.Now().UTC(),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runLogTimeout)
	defer cancel()

	if err := s.runs.RecordRun(writeCtx, run); err != nil {
		s.logger.Warn("report_run_log_failed",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
			slog.String("request_id", req.RequestID),
		)
	}
}
