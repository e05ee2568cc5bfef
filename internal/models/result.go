package models

import "time"

// ScanSummary represents the aggregate result of a scan run
type ScanSummary struct {
	Root        string        // Absolute scan root
	Output      string        // Manifest path written
	Entries     int           // Directories written to the manifest
	Ignored     int           // Directories pruned by ignore rules
	Diagnostics int           // Non-fatal problems reported
	Duration    time.Duration // Time taken by the run
}

// GenerateSummary represents the aggregate result of a generate run
type GenerateSummary struct {
	Manifest    string        // Manifest path read
	Output      string        // Markdown path written
	HTMLOutput  string        // HTML path written (empty when not requested)
	Entries     int           // Blocks rendered
	Unconfirmed int           // Entries whose path was not a directory
	Malformed   int           // Lines skipped for lack of a separator
	EmptyField  int           // Entries skipped for an empty path or description
	Placeholder int           // Entries still carrying the placeholder
	Duration    time.Duration // Time taken by the run
}

// Skipped returns the number of manifest lines left out of the reference.
func (s GenerateSummary) Skipped() int {
	return s.Malformed + s.EmptyField
}

// OrganizeSummary represents the aggregate result of an organize run
type OrganizeSummary struct {
	Dir      string        // Directory organized
	Moved    int           // Files moved into date folders
	Skipped  int           // Files without a date key
	Failed   int           // Files that could not be moved
	Folders  []string      // Date folders touched, sorted
	DryRun   bool          // No files were moved
	Duration time.Duration // Time taken by the run
}
