// Package analytics derives shipment-level views and analytical rollups
// from normalized charge records.
//
// An Analyzer wraps one immutable record set. The per-tracking-number
// shipment table is computed once per instance and cached; every rollup
// is a pure function recomputed from the records or the shipment table
// on each call. Filter returns a new independent Analyzer over a record
// subset, so callers can hold filtered and unfiltered views of the same
// dataset side by side.
//
// Rollups that can legitimately come up empty (returns, weights, duties,
// accessorials) report HasData instead of an error so callers can render
// a "no data" state.
package analytics
