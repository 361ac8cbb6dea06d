package domain

import "errors"

// Crawl errors
var (
	// ErrRootNotFound indicates the crawl root does not exist
	ErrRootNotFound = errors.New("crawl root not found")

	// ErrNotDirectory indicates expected a directory but got a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrCrawlInProgress indicates another crawl holds the storage lock
	ErrCrawlInProgress = errors.New("crawl already in progress")
)

// Query errors
var (
	// ErrInvalidSign indicates a comparison sign other than ">=" or "<="
	ErrInvalidSign = errors.New("invalid comparison sign")

	// ErrInvalidDate indicates a date threshold that could not be parsed
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidKind indicates an unknown partition kind
	ErrInvalidKind = errors.New("invalid partition kind")
)

// Storage errors
var (
	// ErrSnapshotFormat indicates a persisted inventory that cannot be parsed
	ErrSnapshotFormat = errors.New("invalid snapshot format")

	// ErrDestination indicates the differences folder could not be prepared
	ErrDestination = errors.New("destination folder unavailable")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)
