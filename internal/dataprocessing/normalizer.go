package dataprocessing

import (
	"context"
	"io"
	"log/slog"

	"upscli/internal/analytics"
	"upscli/internal/config"
	"upscli/pkg/contracts/domain"
)

// Normalizer pairs the parser with the dataset it produced, for callers
// that want parse-and-inspect in one place without holding an analyzer.
// Each ParseOne or ParseMany call replaces the held dataset with that
// call's result.
type Normalizer struct {
	parser  *Parser
	logger  *slog.Logger
	records []domain.ChargeRecord
}

// NewNormalizer creates a normalizer from data configuration.
func NewNormalizer(cfg config.DataConfig, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		parser: NewParser(cfg, logger),
		logger: logger,
	}
}

// Input is one raw CSV stream plus its origin label.
type Input struct {
	Reader io.Reader
	Label  string
}

// ParseOne normalizes a single input and holds the result.
func (n *Normalizer) ParseOne(ctx context.Context, r io.Reader, label string) ([]domain.ChargeRecord, error) {
	records, _, err := n.parser.Parse(ctx, r, label)
	if err != nil {
		return nil, err
	}
	n.records = records
	return records, nil
}

// ParseMany normalizes several inputs into one combined dataset. A
// failing input is reported and skipped; the rest of the batch still
// loads. Only context cancellation aborts the whole call.
func (n *Normalizer) ParseMany(ctx context.Context, inputs []Input) ([]domain.ChargeRecord, []FileFailure, error) {
	var combined []domain.ChargeRecord
	var failures []FileFailure

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		records, _, err := n.parser.Parse(ctx, input.Reader, input.Label)
		if err != nil {
			n.logger.ErrorContext(ctx, "input failed to parse",
				slog.String("label", input.Label),
				slog.String("error", err.Error()))
			failures = append(failures, FileFailure{File: input.Label, Error: err.Error()})
			continue
		}
		combined = append(combined, records...)
	}

	n.records = combined
	return combined, failures, nil
}

// Records returns the dataset from the most recent parse call. The
// slice is shared; callers must treat it as read-only.
func (n *Normalizer) Records() []domain.ChargeRecord {
	return n.records
}

// Shipments folds the held dataset into per-shipment rows, equivalent
// to the aggregation engine's shipment table.
func (n *Normalizer) Shipments() []domain.Shipment {
	return analytics.New(n.records, n.logger).Shipments()
}

// CostBreakdown groups the held dataset by charge category, equivalent
// to the aggregation engine's cost breakdown rollup.
func (n *Normalizer) CostBreakdown() []analytics.CostBreakdownRow {
	return analytics.New(n.records, n.logger).CostBreakdown()
}
