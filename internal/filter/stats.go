package filter

import "gmaps_reviews/internal/domain"

type Stats struct {
	Total              int            `json:"total"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[int]int    `json:"rating_distribution"`
	DateRange          StatsDateRange `json:"date_range"`
	HelpfulVotesTotal  int            `json:"helpful_votes_total"`
}

type StatsDateRange struct {
	Earliest string `json:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty"`
}

// Collect aggregates a review list in one pass. The average only counts
// reviews with a valid 1..5 rating.
func Collect(reviews []domain.Review) Stats {
	s := Stats{
		Total:              len(reviews),
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	rated := 0
	sum := 0
	haveDates := false
	var earliest, latest domain.Review
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			s.RatingDistribution[r.Rating]++
			sum += r.Rating
			rated++
		}
		s.HelpfulVotesTotal += r.HelpfulVotes
		t, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		if !haveDates {
			earliest, latest = r, r
			haveDates = true
			continue
		}
		if t.Before(timestamp(earliest)) {
			earliest = r
		}
		if t.After(timestamp(latest)) {
			latest = r
		}
	}
	if rated > 0 {
		s.AverageRating = float64(sum) / float64(rated)
	}
	if haveDates {
		s.DateRange = StatsDateRange{Earliest: earliest.Date, Latest: latest.Date}
	}
	return s
}
