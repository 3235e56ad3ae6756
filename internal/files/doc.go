// Package files provides file discovery for invoice CSV inputs and
// generated report outputs.
//
// Invoice CSVs are listed name-sorted so batch parses are
// deterministic; report files are listed newest first for the
// report-listing API.
package files
