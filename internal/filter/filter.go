// Package filter narrows and orders in-memory review lists. Application
// order is fixed: rating filter, then date filter, then sort. Each stage is
// skipped when its key is unset.
package filter

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"gmaps_reviews/internal/domain"
)

type Filters struct {
	MinRating       int    `json:"min_rating,omitempty"`
	DateRange       string `json:"date_range,omitempty"` // week | month | year | custom
	CustomStartDate string `json:"custom_start_date,omitempty"`
	CustomEndDate   string `json:"custom_end_date,omitempty"`
	SortBy          string `json:"sort_by,omitempty"`
}

var dateRanges = map[string]time.Duration{
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
	"year":  365 * 24 * time.Hour,
}

var sortKeys = map[string]bool{
	"date-new": true, "date-old": true,
	"rating-high": true, "rating-low": true,
	"helpful": true,
}

// Apply runs the filter pipeline. The input slice is never mutated.
func Apply(reviews []domain.Review, f Filters) []domain.Review {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)

	if f.MinRating >= 1 && f.MinRating <= 5 {
		out = ByRating(out, f.MinRating)
	}
	if f.DateRange != "" {
		out = ByDate(out, f)
	}
	if f.SortBy != "" {
		out = Sort(out, f.SortBy)
	}
	return out
}

// ByRating keeps reviews rated at least min. Out-of-range min is a no-op.
func ByRating(reviews []domain.Review, min int) []domain.Review {
	if min < 1 || min > 5 {
		return reviews
	}
	kept := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Rating >= min {
			kept = append(kept, r)
		}
	}
	return kept
}

// ByDate keeps reviews whose parsed date falls in [start, end] inclusive.
// Reviews with missing or unparsable dates are dropped while a date filter
// is active. A custom range with start after end matches nothing.
func ByDate(reviews []domain.Review, f Filters) []domain.Review {
	now := time.Now()
	var start, end time.Time

	switch f.DateRange {
	case "week", "month", "year":
		start = now.Add(-dateRanges[f.DateRange])
		end = now
	case "custom":
		start = time.Unix(0, 0)
		end = now
		if t, ok := parseDate(f.CustomStartDate); ok {
			start = t
		}
		if t, ok := parseDate(f.CustomEndDate); ok {
			end = t
		}
	default:
		return reviews
	}

	kept := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		t, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Sort orders reviews by the given key. The sort is stable: ties keep input
// order. Unparsable dates compare as the epoch.
func Sort(reviews []domain.Review, key string) []domain.Review {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)

	switch key {
	case "date-new":
		sort.SliceStable(out, func(i, j int) bool {
			return timestamp(out[i]).After(timestamp(out[j]))
		})
	case "date-old":
		sort.SliceStable(out, func(i, j int) bool {
			return timestamp(out[i]).Before(timestamp(out[j]))
		})
	case "rating-high":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case "rating-low":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	case "helpful":
		sort.SliceStable(out, func(i, j int) bool { return out[i].HelpfulVotes > out[j].HelpfulVotes })
	}
	return out
}

func timestamp(r domain.Review) time.Time {
	if t, ok := parseDate(r.Date); ok {
		return t
	}
	return time.Unix(0, 0)
}

// parseDate accepts the loose formats Google Maps emits alongside anything
// dateparse understands. Relative forms ("2 weeks ago") resolve against now.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseRelative(s); ok {
		return t, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate is the advisory pass over a filter set. It returns human-readable
// problems; Apply never consults it.
func Validate(f Filters) []string {
	var errs []string
	if f.MinRating != 0 && (f.MinRating < 1 || f.MinRating > 5) {
		errs = append(errs, fmt.Sprintf("min_rating must be between 1 and 5, got %d", f.MinRating))
	}
	if f.DateRange != "" && f.DateRange != "custom" {
		if _, ok := dateRanges[f.DateRange]; !ok {
			errs = append(errs, fmt.Sprintf("unknown date_range %q", f.DateRange))
		}
	}
	if f.DateRange == "custom" {
		start, sok := parseDate(f.CustomStartDate)
		end, eok := parseDate(f.CustomEndDate)
		if sok && eok && start.After(end) {
			errs = append(errs, "custom start date is after end date")
		}
	}
	if f.SortBy != "" && !sortKeys[f.SortBy] {
		errs = append(errs, fmt.Sprintf("unknown sort_by %q", f.SortBy))
	}
	return errs
}
