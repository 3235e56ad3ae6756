package analytics

import (
	"upscli/pkg/contracts/domain"
)

// ReportOptions selects the variable parts of a full report.
type ReportOptions struct {
	// Period is the trend bucket size, month when unset.
	Period Period
	// TopExpensesLimit is the top-expense row count, 10 when unset.
	TopExpensesLimit int
}

// Report bundles every rollup over one dataset. Exporters and the
// combined analysis endpoints consume it instead of calling ten rollups
// one by one.
type Report struct {
	Summary       Summary              `json:"summary"`
	CostBreakdown []CostBreakdownRow   `json:"cost_breakdown"`
	Destinations  []DestinationRow     `json:"destinations"`
	Trends        []TrendRow           `json:"trends"`
	Returns       ReturnsAnalysis      `json:"returns"`
	Weights       WeightsAnalysis      `json:"weights"`
	Services      []ServiceRow         `json:"services"`
	Duties        DutiesAnalysis       `json:"duties"`
	Accessorials  AccessorialsAnalysis `json:"accessorials"`
	TopExpenses   []domain.Shipment    `json:"top_expenses"`
}

// Report materializes every rollup at once.
func (a *Analyzer) Report(opts ReportOptions) *Report {
	period := opts.Period
	if period != PeriodWeek {
		period = PeriodMonth
	}

	limit := opts.TopExpensesLimit
	if limit <= 0 {
		limit = 10
	}

	return &Report{
		Summary:       a.Summary(),
		CostBreakdown: a.CostBreakdown(),
		Destinations:  a.ByDestination(),
		Trends:        a.Trends(period),
		Returns:       a.Returns(),
		Weights:       a.Weights(),
		Services:      a.Services(),
		Duties:        a.DutiesAndBrokerage(),
		Accessorials:  a.Accessorials(),
		TopExpenses:   a.TopExpenses(limit),
	}
}
