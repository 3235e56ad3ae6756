package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"upscli/internal/analytics"
	"upscli/internal/config"
	"upscli/internal/dataprocessing"
	"upscli/internal/files"
	"upscli/internal/infrastructure"
	"upscli/pkg/contracts/domain"
)

// InvoiceService owns the loaded invoice dataset. Load parses the
// configured invoices directory into charge records, wraps them in an
// analytics.Analyzer, and swaps the analyzer in under a write lock.
// Every read goes through the active analyzer, so readers always see
// either the old dataset or the new one, never a mix.
type InvoiceService struct {
	cfg     *config.Config
	parser  *dataprocessing.Parser
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu       sync.RWMutex
	analyzer *analytics.Analyzer
	loaded   *LoadResult
}

// NewInvoiceService creates an invoice service without metric
// instruments. Intended for CLI use where no meter is running.
func NewInvoiceService(cfg *config.Config, logger *slog.Logger) *InvoiceService {
	return NewInvoiceServiceWithMetrics(cfg, logger, nil)
}

// NewInvoiceServiceWithMetrics creates an invoice service that records
// business metrics on the given instruments. metrics may be nil.
func NewInvoiceServiceWithMetrics(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("InvoiceService initialized",
		slog.String("invoices_dir", cfg.Data.InvoicesDir),
		slog.String("reports_dir", cfg.Data.ReportsDir))

	return &InvoiceService{
		cfg:     cfg,
		parser:  dataprocessing.NewParser(cfg.Data, logger),
		logger:  logger,
		metrics: metrics,
	}
}

// LoadResult reports what one dataset load produced.
type LoadResult struct {
	Files     int                          `json:"files"`
	Records   int                          `json:"records"`
	Shipments int                          `json:"shipments"`
	Lines     int                          `json:"lines"`
	Skipped   int                          `json:"skipped"`
	Failures  []dataprocessing.FileFailure `json:"failures,omitempty"`
	LoadedAt  time.Time                    `json:"loaded_at"`
	ElapsedMS int64                        `json:"elapsed_ms"`
}

// DatasetStats describes the currently loaded dataset for health
// reporting. Before the first load every count is zero and Loaded is
// false.
type DatasetStats struct {
	Loaded      bool      `json:"loaded"`
	InvoicesDir string    `json:"invoices_dir"`
	Files       int       `json:"files"`
	Records     int       `json:"records"`
	Shipments   int       `json:"shipments"`
	Skipped     int       `json:"skipped"`
	Failures    int       `json:"failures"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Load parses every invoice file in the configured directory and swaps
// the dataset in. On error the previous dataset, if any, stays active.
// Per-file failures do not fail the load; they are reported in the
// result and the batch continues with the files that did parse.
func (s *InvoiceService) Load(ctx context.Context) (*LoadResult, error) {
	dir := s.cfg.Data.InvoicesDir
	start := time.Now()

	batch, err := s.parser.ParseDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices from %s: %w", dir, err)
	}

	analyzer := analytics.New(batch.Records, s.logger)
	// Build the shipment table eagerly so the first reader does not pay
	// for the fold and the load result can report the shipment count.
	shipments := analyzer.Shipments()

	result := &LoadResult{
		Files:     batch.Files,
		Records:   len(batch.Records),
		Shipments: len(shipments),
		Lines:     batch.Lines,
		Skipped:   batch.Skipped,
		Failures:  batch.Failures,
		LoadedAt:  time.Now().UTC(),
		ElapsedMS: time.Since(start).Milliseconds(),
	}

	s.mu.Lock()
	s.analyzer = analyzer
	s.loaded = result
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.FilesParsed.Add(ctx, int64(batch.Files))
		s.metrics.FilesFailed.Add(ctx, int64(len(batch.Failures)))
		s.metrics.LinesNormalized.Add(ctx, int64(len(batch.Records)))
		s.metrics.LinesSkipped.Add(ctx, int64(batch.Skipped))
		s.metrics.ParseDuration.Record(ctx, time.Since(start).Seconds())
		s.metrics.ShipmentsAggregated.Add(ctx, int64(len(shipments)))
		s.metrics.DatasetReloads.Add(ctx, 1)
	}

	s.logger.InfoContext(ctx, "invoice dataset loaded",
		slog.String("dir", dir),
		slog.Int("files", result.Files),
		slog.Int("records", result.Records),
		slog.Int("shipments", result.Shipments),
		slog.Int("failed_files", len(result.Failures)),
		slog.Int64("elapsed_ms", result.ElapsedMS))

	return result, nil
}

// Stats returns dataset statistics for health reporting. It never
// fails; before the first load it reports an unloaded dataset.
func (s *InvoiceService) Stats() DatasetStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := DatasetStats{InvoicesDir: s.cfg.Data.InvoicesDir}
	if s.loaded == nil {
		return stats
	}

	stats.Loaded = true
	stats.Files = s.loaded.Files
	stats.Records = s.loaded.Records
	stats.Shipments = s.loaded.Shipments
	stats.Skipped = s.loaded.Skipped
	stats.Failures = len(s.loaded.Failures)
	stats.LoadedAt = s.loaded.LoadedAt
	return stats
}

// current returns the active analyzer, or ErrNoDataset when Load has
// never succeeded.
func (s *InvoiceService) current() (*analytics.Analyzer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.analyzer == nil {
		return nil, ErrNoDataset
	}
	return s.analyzer, nil
}

// observeRollup records the elapsed rollup computation time. Call with
// defer and a captured start time.
func (s *InvoiceService) observeRollup(ctx context.Context, name string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RollupDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("rollup", name)))
}

// Summary returns the headline statistics of the loaded dataset.
func (s *InvoiceService) Summary(ctx context.Context) (analytics.Summary, error) {
	a, err := s.current()
	if err != nil {
		return analytics.Summary{}, err
	}
	defer s.observeRollup(ctx, "summary", time.Now())
	return a.Summary(), nil
}

// CostBreakdown returns per-category totals and their share of the
// overall spend.
func (s *InvoiceService) CostBreakdown(ctx context.Context) ([]analytics.CostBreakdownRow, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observeRollup(ctx, "cost_breakdown", time.Now())
	return a.CostBreakdown(), nil
}

// Destinations returns per-country shipment aggregates.
func (s *InvoiceService) Destinations(ctx context.Context) ([]analytics.DestinationRow, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observeRollup(ctx, "destinations", time.Now())
	return a.ByDestination(), nil
}

// Trends returns per-period cost trends. Anything other than the
// weekly period falls back to monthly buckets.
func (s *InvoiceService) Trends(ctx context.Context, period analytics.Period) ([]analytics.TrendRow, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	if period != analytics.PeriodWeek {
		period = analytics.PeriodMonth
	}
	defer s.observeRollup(ctx, "trends", time.Now())
	return a.Trends(period), nil
}

// Returns returns the return-shipment analysis.
func (s *InvoiceService) Returns(ctx context.Context) (analytics.ReturnsAnalysis, error) {
	a, err := s.current()
	if err != nil {
		return analytics.ReturnsAnalysis{}, err
	}
	defer s.observeRollup(ctx, "returns", time.Now())
	return a.Returns(), nil
}

// Weights returns the billed-weight analysis.
func (s *InvoiceService) Weights(ctx context.Context) (analytics.WeightsAnalysis, error) {
	a, err := s.current()
	if err != nil {
		return analytics.WeightsAnalysis{}, err
	}
	defer s.observeRollup(ctx, "weights", time.Now())
	return a.Weights(), nil
}

// Services returns per-service-level aggregates.
func (s *InvoiceService) Services(ctx context.Context) ([]analytics.ServiceRow, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observeRollup(ctx, "services", time.Now())
	return a.Services(), nil
}

// Duties returns the duties and brokerage analysis for import
// shipments.
func (s *InvoiceService) Duties(ctx context.Context) (analytics.DutiesAnalysis, error) {
	a, err := s.current()
	if err != nil {
		return analytics.DutiesAnalysis{}, err
	}
	defer s.observeRollup(ctx, "duties", time.Now())
	return a.DutiesAndBrokerage(), nil
}

// Accessorials returns the accessorial surcharge analysis.
func (s *InvoiceService) Accessorials(ctx context.Context) (analytics.AccessorialsAnalysis, error) {
	a, err := s.current()
	if err != nil {
		return analytics.AccessorialsAnalysis{}, err
	}
	defer s.observeRollup(ctx, "accessorials", time.Now())
	return a.Accessorials(), nil
}

// TopExpenses returns the n most expensive shipments. A non-positive n
// falls back to the configured default limit.
func (s *InvoiceService) TopExpenses(ctx context.Context, n int) ([]domain.Shipment, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.cfg.Data.TopExpensesLimit
	}
	if n <= 0 {
		n = 10
	}
	defer s.observeRollup(ctx, "top_expenses", time.Now())
	return a.TopExpenses(n), nil
}

// Shipments returns the per-tracking-number shipment table.
func (s *InvoiceService) Shipments(ctx context.Context) ([]domain.Shipment, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	return a.Shipments(), nil
}

// Records returns the normalized charge-line records. The slice is
// shared; treat it as read-only.
func (s *InvoiceService) Records(ctx context.Context) ([]domain.ChargeRecord, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	return a.Records(), nil
}

// Filtered returns a new analyzer scoped to the records matching f.
// The returned analyzer is independent of the service; a concurrent
// reload does not affect it.
func (s *InvoiceService) Filtered(ctx context.Context, f analytics.Filter) (*analytics.Analyzer, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observeRollup(ctx, "filter", time.Now())
	return a.Filter(f), nil
}

// Report materializes every rollup of the loaded dataset at once. A
// zero TopExpensesLimit falls back to the configured default.
func (s *InvoiceService) Report(ctx context.Context, opts analytics.ReportOptions) (*analytics.Report, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	if opts.TopExpensesLimit <= 0 {
		opts.TopExpensesLimit = s.cfg.Data.TopExpensesLimit
	}
	defer s.observeRollup(ctx, "report", time.Now())
	return a.Report(opts), nil
}

// ReportFile describes one generated report in the reports directory.
type ReportFile struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

// ListReports returns the generated report files in the configured
// reports directory, newest first. A reports directory that does not
// exist yet means no exports have run, so it lists as empty rather
// than failing.
func (s *InvoiceService) ListReports(ctx context.Context) ([]ReportFile, error) {
	dir := s.cfg.Data.ReportsDir

	infos, err := files.NewDiscovery(dir).FindReportFiles(".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ReportFile{}, nil
		}
		return nil, fmt.Errorf("failed to list reports in %s: %w", dir, err)
	}

	reports := make([]ReportFile, 0, len(infos))
	for _, info := range infos {
		reports = append(reports, ReportFile{
			Name:      info.Name,
			SizeBytes: info.Size,
			Modified:  info.ModTime,
		})
	}

	s.logger.DebugContext(ctx, "listed report files",
		slog.String("dir", dir),
		slog.Int("count", len(reports)))

	return reports, nil
}

// ReportPath resolves a report name to its path in the reports
// directory. Names carrying path separators or dot prefixes are
// rejected so a crafted name cannot escape the directory.
func (s *InvoiceService) ReportPath(ctx context.Context, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportName, name)
	}

	path := filepath.Join(s.cfg.Data.ReportsDir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrReportNotFound
		}
		return "", fmt.Errorf("failed to stat report %s: %w", name, err)
	}
	if info.IsDir() {
		return "", ErrReportNotFound
	}

	return path, nil
}
