package http

import (
	"context"

	"upscli/internal/analytics"
	"upscli/internal/services"
	"upscli/pkg/contracts/domain"
)

// InvoiceServiceInterface defines the dataset operations the handlers
// depend on. services.InvoiceService is the production implementation.
type InvoiceServiceInterface interface {
	Load(ctx context.Context) (*services.LoadResult, error)
	Summary(ctx context.Context) (analytics.Summary, error)
	CostBreakdown(ctx context.Context) ([]analytics.CostBreakdownRow, error)
	Destinations(ctx context.Context) ([]analytics.DestinationRow, error)
	Trends(ctx context.Context, period analytics.Period) ([]analytics.TrendRow, error)
	Returns(ctx context.Context) (analytics.ReturnsAnalysis, error)
	Weights(ctx context.Context) (analytics.WeightsAnalysis, error)
	Services(ctx context.Context) ([]analytics.ServiceRow, error)
	Duties(ctx context.Context) (analytics.DutiesAnalysis, error)
	Accessorials(ctx context.Context) (analytics.AccessorialsAnalysis, error)
	TopExpenses(ctx context.Context, n int) ([]domain.Shipment, error)
	Shipments(ctx context.Context) ([]domain.Shipment, error)
	Filtered(ctx context.Context, f analytics.Filter) (*analytics.Analyzer, error)
	ListReports(ctx context.Context) ([]services.ReportFile, error)
	ReportPath(ctx context.Context, name string) (string, error)
}
