package validate

import (
	"strings"

	"gmaps_reviews/internal/domain"
)

// Heuristic thresholds for the extra review checks. These are quality
// heuristics tuned against scraped data, not hard business rules.
const (
	minContentLen       = 10
	lowRatingMax        = 2
	lowRatingContentLen = 20
	minAuthorLen        = 2
	repetitionRatio     = 0.30
	repetitionMinWords  = 10
)

// Review runs the schema plus review-specific heuristics.
func Review(r domain.Review) Result {
	res := Apply(ReviewRules, map[string]any{
		"id":             r.ID,
		"author_name":    r.AuthorName,
		"author_image":   r.AuthorImage,
		"rating":         r.Rating,
		"content":        r.Content,
		"date":           r.Date,
		"helpful_votes":  r.HelpfulVotes,
		"owner_response": r.OwnerResponse,
		"language":       r.Language,
	})

	content := strings.TrimSpace(r.Content)
	if content != "" && len(content) < minContentLen {
		res.addError("content must be at least %d characters", minContentLen)
	}
	if r.Rating >= 1 && r.Rating <= lowRatingMax && len(content) < lowRatingContentLen {
		res.addError("low rating should have detail (at least %d characters)", lowRatingContentLen)
	}
	if name := strings.TrimSpace(r.AuthorName); name != "" && len(name) < minAuthorLen {
		res.addError("author name must be at least %d characters", minAuthorLen)
	}
	if isRepetitive(content) {
		res.addError("content is repetitive")
	}
	return res
}

// BusinessInfo runs the business record schema.
func BusinessInfo(b domain.BusinessInfo) Result {
	return Apply(BusinessRules, map[string]any{
		"name":         b.Name,
		"address":      b.Address,
		"phone":        b.Phone,
		"website":      b.Website,
		"rating":       b.Rating,
		"review_count": b.ReviewCount,
		"category":     b.Category,
	})
}

// isRepetitive reports whether the most repeated word makes up more than 30%
// of the word count. Only applied to texts long enough for the ratio to mean
// anything.
func isRepetitive(content string) bool {
	words := strings.Fields(strings.ToLower(content))
	if len(words) < repetitionMinWords {
		return false
	}
	counts := make(map[string]int, len(words))
	top := 0
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		if w == "" {
			continue
		}
		counts[w]++
		if counts[w] > top {
			top = counts[w]
		}
	}
	return float64(top) > float64(len(words))*repetitionRatio
}
