package main

import "time"

// Post is one blog post read from the export, immutable for the run.
type Post struct {
	Slug        string
	Title       string
	Date        time.Time
	Description string
	Body        string
	CoverURL    string
	Tags        []string
}

// ConversionStatus represents the outcome status of converting a post
type ConversionStatus string

const (
	StatusConverted ConversionStatus = "converted"
	StatusSkipped   ConversionStatus = "skipped"
	StatusFailed    ConversionStatus = "failed"
)

// ConversionOutcome tracks the outcome of converting one post
type ConversionOutcome struct {
	Slug       string
	Title      string
	Status     ConversionStatus
	OutputPath string
	Error      error
}

// SlugError pairs a post slug with the error that failed it.
type SlugError struct {
	Slug string
	Err  error
}

// AggregateResult summarizes a whole conversion run.
type AggregateResult struct {
	Converted int
	Skipped   int
	Failed    int
	Errors    []SlugError
	Duration  time.Duration
}

// DownloadOutcome is the result of a single asset fetch. Permanent means
// retrying is pointless (the resource is forbidden); every other failure
// is considered transient.
type DownloadOutcome struct {
	Success   bool
	Permanent bool
	Err       error
}

// AssetError records one failed or unresolvable asset reference.
type AssetError struct {
	Filename  string
	URL       string
	Permanent bool
	Message   string
}

// AssetOutcome records what happened to one asset reference during
// localization. The converter turns these into events.
type AssetOutcome struct {
	Filename  string
	URL       string
	Success   bool
	Skipped   bool
	Permanent bool
	Message   string
}

// LocalizeResult is what AssetLocalizer returns for one document body.
type LocalizeResult struct {
	Body       string
	Processed  int
	Downloaded int
	Skipped    int
	Errors     []AssetError
	Assets     []AssetOutcome
}
