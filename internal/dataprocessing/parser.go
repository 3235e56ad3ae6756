package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"upscli/internal/config"
	"upscli/internal/files"
	"upscli/pkg/contracts/domain"
)

// Parser converts raw UPS billing CSV exports into normalized charge
// records. The exports carry no header row; fields are extracted by
// position and coerced leniently: unparsable amounts become zero,
// unparsable dates become the zero time, and rows with more fields than
// the file's first row are skipped the way a spreadsheet import would
// drop them.
type Parser struct {
	delimiter rune
	encoding  string
	parallel  int
	logger    *slog.Logger
}

// NewParser creates a parser from data configuration.
func NewParser(cfg config.DataConfig, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}

	delimiter := ','
	if cfg.Delimiter != "" {
		delimiter = rune(cfg.Delimiter[0])
	}

	parallel := cfg.MaxParallelFiles
	if parallel <= 0 {
		parallel = 1
	}

	return &Parser{
		delimiter: delimiter,
		encoding:  cfg.Encoding,
		parallel:  parallel,
		logger:    logger.With(slog.String("component", "parser")),
	}
}

// ParseStats reports what happened while normalizing one input.
type ParseStats struct {
	Lines    int    `json:"lines"`
	Skipped  int    `json:"skipped"`
	Encoding string `json:"encoding"`
}

// FileFailure records a per-file load failure inside a batch.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// BatchResult is the outcome of parsing a directory of invoice files.
// Failures never abort the batch; they are reported alongside the
// records that did load.
type BatchResult struct {
	Records  []domain.ChargeRecord `json:"-"`
	Files    int                   `json:"files"`
	Lines    int                   `json:"lines"`
	Skipped  int                   `json:"skipped"`
	Failures []FileFailure         `json:"failures,omitempty"`
}

// Parse normalizes one CSV stream. sourceFile is the origin label
// attached to every resulting record.
func (p *Parser) Parse(ctx context.Context, r io.Reader, sourceFile string) ([]domain.ChargeRecord, *ParseStats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}
	return p.parseContent(ctx, data, sourceFile)
}

// ParseFile normalizes one CSV file from disk. The record source label
// is the file's base name.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]domain.ChargeRecord, *ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return p.Parse(ctx, f, filepath.Base(path))
}

// ParseDir normalizes every CSV file in a directory. Files parse
// concurrently up to the configured limit; results are concatenated in
// file name order so repeated runs produce identical datasets. A file
// that fails to load is reported in the result and the batch continues.
func (p *Parser) ParseDir(ctx context.Context, dir string) (*BatchResult, error) {
	discovery := files.NewDiscovery(dir)
	infos, err := discovery.FindCSVFiles(".")
	if err != nil {
		return nil, err
	}

	perFile := make([][]domain.ChargeRecord, len(infos))
	perStats := make([]*ParseStats, len(infos))
	perErr := make([]error, len(infos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)

	for i, info := range infos {
		g.Go(func() error {
			records, stats, err := p.ParseFile(gctx, info.Path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				perErr[i] = err
				return nil
			}
			perFile[i] = records
			perStats[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i, info := range infos {
		if perErr[i] != nil {
			p.logger.ErrorContext(ctx, "invoice file failed to parse",
				slog.String("file", info.Name),
				slog.String("error", perErr[i].Error()))
			result.Failures = append(result.Failures, FileFailure{
				File:  info.Name,
				Error: perErr[i].Error(),
			})
			continue
		}

		result.Records = append(result.Records, perFile[i]...)
		result.Files++
		result.Lines += perStats[i].Lines
		result.Skipped += perStats[i].Skipped
	}

	p.logger.InfoContext(ctx, "invoice batch parsed",
		slog.String("dir", dir),
		slog.Int("files", result.Files),
		slog.Int("failed", len(result.Failures)),
		slog.Int("lines", result.Lines),
		slog.Int("skipped", result.Skipped))

	return result, nil
}

func (p *Parser) parseContent(ctx context.Context, data []byte, sourceFile string) ([]domain.ChargeRecord, *ParseStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	content, encodingUsed, err := decodeContent(data, p.encoding)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	stats := &ParseStats{Encoding: encodingUsed}
	var records []domain.ChargeRecord

	// The first row fixes the file's column count. Rows with more
	// fields are malformed and skipped; shorter rows read as absent
	// trailing values.
	width := -1

	for rowNum := 0; ; rowNum++ {
		if rowNum%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if width < 0 {
			width = len(row)
		} else if len(row) > width {
			stats.Skipped++
			continue
		}

		records = append(records, normalizeRow(row, sourceFile))
		stats.Lines++
	}

	p.logger.DebugContext(ctx, "invoice file normalized",
		slog.String("file", sourceFile),
		slog.String("encoding", encodingUsed),
		slog.Int("lines", stats.Lines),
		slog.Int("skipped", stats.Skipped))

	return records, stats, nil
}

// normalizeRow maps one raw row onto a typed charge record and computes
// the derived fields.
func normalizeRow(row []string, sourceFile string) domain.ChargeRecord {
	rec := domain.ChargeRecord{
		Version:           stringAt(row, colVersion),
		AccountNumber:     stringAt(row, colAccountNumber),
		ShipperNumber:     stringAt(row, colShipperNumber),
		CountryCode:       stringAt(row, colCountryCode),
		InvoiceDate:       dateAt(row, colInvoiceDate),
		InvoiceNumber:     stringAt(row, colInvoiceNumber),
		InvoiceType:       stringAt(row, colInvoiceType),
		InvoiceTypeDetail: stringAt(row, colInvoiceTypeDetail),
		VATNumber:         stringAt(row, colVATNumber),
		Currency:          stringAt(row, colCurrency),
		InvoiceTotal:      decimalAt(row, colInvoiceTotal),
		ShipmentDate:      dateAt(row, colShipmentDate),
		Reference1:        stringAt(row, colReference1),
		OrderReference:    stringAt(row, colOrderReference),
		PaymentTerms:      stringAt(row, colPaymentTerms),
		PackageIndicator:  stringAt(row, colPackageIndicator),
		TrackingNumber:    stringAt(row, colTrackingNumber),
		ActualWeight:      decimalAt(row, colActualWeight),
		ActualWeightUnit:  stringAt(row, colActualWeightUnit),
		BilledWeight:      decimalAt(row, colBilledWeight),
		BilledWeightUnit:  stringAt(row, colBilledWeightUnit),
		PackageType:       stringAt(row, colPackageType),
		Zone:              stringAt(row, colZone),
		ServiceCode:       stringAt(row, colServiceCode),
		ShipmentType:      stringAt(row, colShipmentType),
		ShipmentSubtype:   stringAt(row, colShipmentSubtype),
		ChargeCategory:    stringAt(row, colChargeCategory),
		ChargeCode:        stringAt(row, colChargeCode),
		ChargeDescription: stringAt(row, colChargeDescription),
		DiscountAmount:    decimalAt(row, colDiscountAmount),
		NetAmount:         decimalAt(row, colNetAmount),
		SenderName:        stringAt(row, colSenderName),
		SenderStreet:      stringAt(row, colSenderStreet),
		SenderCity:        stringAt(row, colSenderCity),
		SenderPostal:      stringAt(row, colSenderPostal),
		SenderCountry:     stringAt(row, colSenderCountry),
		RecipientName:     stringAt(row, colRecipientName),
		RecipientCompany:  stringAt(row, colRecipientCompany),
		RecipientStreet:   stringAt(row, colRecipientStreet),
		RecipientCity:     stringAt(row, colRecipientCity),
		RecipientPostal:   stringAt(row, colRecipientPostal),
		RecipientCountry:  stringAt(row, colRecipientCountry),
		PickupDate:        dateAt(row, colPickupDate),
		DeliveryDate:      dateAt(row, colDeliveryDate),
		DeclaredValue:     decimalAt(row, colDeclaredValue),
		GoodsDescription:  stringAt(row, colGoodsDescription),
		EnteredWeightNote: stringAt(row, colEnteredWeightNote),
		AuditedWeightNote: stringAt(row, colAuditedWeightNote),
	}

	// Derived fields. Total charge is the net amount: the discount
	// column shows how much was already deducted, not an extra charge.
	rec.TotalCharge = rec.NetAmount

	// The charge description on freight rows carries the actual service
	// name. The static code table is a last resort only: one code can
	// map to different services depending on route and tier.
	if rec.ChargeCategory == domain.CategoryFreight && rec.ChargeDescription != "" {
		rec.ServiceName = rec.ChargeDescription
	} else {
		rec.ServiceName = domain.ServiceNameForCode(rec.ServiceCode)
	}

	rec.ChargeCategoryName = domain.ChargeCategoryLabel(rec.ChargeCategory)
	rec.IsPackageLine = rec.PackageIndicator == domain.PackageLineIndicator
	rec.IsReturn = rec.ShipmentType == domain.ShipmentTypeReturn
	rec.WeightDifference = rec.BilledWeight.Sub(rec.ActualWeight)
	rec.SourceFile = sourceFile

	return rec
}

// stringAt returns the trimmed field at idx, or "" when the column is
// beyond the row's width or holds the literal placeholder for no value.
func stringAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s := strings.TrimSpace(row[idx])
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// decimalAt parses a monetary or weight field, coercing anything
// unparsable to zero.
func decimalAt(row []string, idx int) decimal.Decimal {
	s := stringAt(row, idx)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date layouts seen across UPS billing exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"20060102",
	"02.01.2006",
}

// dateAt parses a date field, coercing anything unparsable to the zero
// time so absent dates are explicit rather than an error.
func dateAt(row []string, idx int) time.Time {
	s := stringAt(row, idx)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
