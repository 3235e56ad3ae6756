// Package dataprocessing normalizes raw UPS billing CSV exports into
// typed charge records.
//
// The exports are headerless, fixed-layout CSV files: one row per charge
// or package-descriptor line, field meaning determined by position. The
// parser extracts the ~50 positions the analyzer consumes, coerces types
// leniently (bad amounts become zero, bad dates become the zero time,
// empty and placeholder strings become ""), and computes the derived
// fields every downstream consumer relies on: total charge, resolved
// service name, charge category label, package-line and return flags,
// and the billed-minus-actual weight difference.
//
// Batch loading is per-file fault tolerant: a file that cannot be read
// or decoded is reported in the batch result while its siblings load
// normally.
package dataprocessing
