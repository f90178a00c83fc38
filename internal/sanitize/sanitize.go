// Package sanitize normalizes untrusted input: shortcode/widget attributes,
// admin form values, and scraped review fields. All functions are pure and
// never fail; out-of-range or unrecognized input falls back to documented
// defaults.
package sanitize

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"gmaps_reviews/internal/domain"
)

// IntRange clamps v into [min, max].
func IntRange(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// FloatRange clamps v into [min, max].
func FloatRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Bool maps truthy strings ("true", "1", "yes", "on", "enabled",
// case-insensitive) to true; everything else to false.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "enabled":
		return true
	}
	return false
}

// Enum returns s if it is a member of allowed, otherwise def.
func Enum(s string, allowed []string, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}

// URL returns the input if it parses as an absolute http(s) URL, "" otherwise.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "u")
	p.AllowElements("span", "div")
	p.AllowAttrs("class").OnElements("span", "div")
	return p
}()

var textPolicy = bluemonday.StrictPolicy()

// HTML keeps only the allow-listed markup: p, br, strong, em, u, and
// span/div with a class attribute. Everything else is stripped.
func HTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// Text strips all markup and trims whitespace.
func Text(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// CSSClass keeps only characters valid in a space-separated class list.
func CSSClass(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Review cleans a scraped review in place for storage and rendering.
func Review(r domain.Review) domain.Review {
	r.ID = Text(r.ID)
	r.AuthorName = Text(r.AuthorName)
	r.AuthorImage = URL(r.AuthorImage)
	r.Rating = IntRange(r.Rating, 1, 5)
	r.Content = HTML(r.Content)
	r.Date = Text(r.Date)
	if r.HelpfulVotes < 0 {
		r.HelpfulVotes = 0
	}
	r.OwnerResponse = HTML(r.OwnerResponse)
	r.Language = Text(r.Language)
	if r.Language == "" {
		r.Language = "en"
	}
	return r
}

// BusinessInfo cleans a scraped business record.
func BusinessInfo(b domain.BusinessInfo) domain.BusinessInfo {
	b.Name = Text(b.Name)
	b.Address = Text(b.Address)
	b.Phone = Text(b.Phone)
	b.Website = URL(b.Website)
	b.Rating = FloatRange(b.Rating, 0, 5)
	if b.ReviewCount < 0 {
		b.ReviewCount = 0
	}
	b.Category = Text(b.Category)
	for i, h := range b.Hours {
		b.Hours[i] = domain.OpeningHours{Day: Text(h.Day), Hours: Text(h.Hours)}
	}
	return b
}
