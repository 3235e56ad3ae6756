package services

import "errors"

// ErrNoDataset is returned by every dataset accessor until the first
// successful Load. It is distinct from an empty dataset: a directory
// with zero invoice files still loads and yields empty rollups.
var ErrNoDataset = errors.New("no dataset loaded")

// ErrReportNotFound is returned when a named report file does not exist
// in the reports directory.
var ErrReportNotFound = errors.New("report file not found")

// ErrInvalidReportName is returned when a report name contains path
// separators or otherwise points outside the reports directory.
var ErrInvalidReportName = errors.New("invalid report name")
