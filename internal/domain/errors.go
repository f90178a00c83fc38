package domain

import "errors"

// Scrape failures are surfaced as sentinel values so callers can map them to
// user-facing messages without parsing strings.
var (
	ErrNotFound = errors.New("not found")

	ErrInvalidURL             = errors.New("invalid business url")
	ErrBusinessNameExtraction = errors.New("business name extraction failed")
	ErrBrowserUnavailable     = errors.New("browser automation unavailable")
	ErrBrowserInit            = errors.New("browser session init failed")
	ErrNoReviewsSection       = errors.New("reviews section not found")
	ErrNoReviewsFound         = errors.New("no reviews found")
)
