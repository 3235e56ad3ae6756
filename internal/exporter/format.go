package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// formatAmount formats a monetary or weight value for CSV output with
// exactly 2 decimal places. This ensures values like 13.4 appear as
// 13.40 in the report.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatCount formats an integer count for CSV output
func formatCount(i int) string {
	return strconv.Itoa(i)
}

// formatDate formats a date column; dates that never parsed export as empty
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
