package render

import (
	"fmt"
	"html"
	"strings"

	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/filter"
	"gmaps_reviews/internal/sanitize"
)

type Renderer struct {
	reg *Registry
}

func New(reg *Registry) *Renderer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Renderer{reg: reg}
}

// Reviews renders the full fragment: sanitize each review, apply the
// option-driven filters, paginate, then dispatch to the layout wrapper.
func (rd *Renderer) Reviews(reviews []domain.Review, opts sanitize.Options) string {
	cleaned := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		cleaned = append(cleaned, sanitize.Review(r))
	}

	cleaned = filter.Apply(cleaned, filter.Filters{
		MinRating: opts.MinRating,
		SortBy:    sortKeyFor(opts),
	})
	page := Paginate(cleaned, opts.Page, opts.PerPage)

	items := make([]string, 0, len(page))
	tpl := rd.reg.Lookup(opts.Theme, "review")
	for _, r := range page {
		items = append(items, Execute(tpl, reviewVars(r, opts)))
	}

	return wrapLayout(items, opts)
}

// BusinessInfo renders the place header block.
func (rd *Renderer) BusinessInfo(b domain.BusinessInfo, opts sanitize.Options) string {
	b = sanitize.BusinessInfo(b)
	tpl := rd.reg.Lookup(opts.Theme, "business_info")
	return Execute(tpl, map[string]string{
		"name":         html.EscapeString(b.Name),
		"address":      html.EscapeString(b.Address),
		"phone":        html.EscapeString(b.Phone),
		"website":      b.Website,
		"rating":       fmt.Sprintf("%.1f", b.Rating),
		"rating_stars": Stars(int(b.Rating + 0.5)),
		"review_count": fmt.Sprintf("%d", b.ReviewCount),
		"category":     html.EscapeString(b.Category),
	})
}

// sortKeyFor folds sort_order into the filter sort key: an ascending order
// flips the date/rating direction.
func sortKeyFor(opts sanitize.Options) string {
	if opts.SortOrder != "asc" {
		return opts.SortBy
	}
	switch opts.SortBy {
	case "date-new":
		return "date-old"
	case "date-old":
		return "date-new"
	case "rating-high":
		return "rating-low"
	case "rating-low":
		return "rating-high"
	}
	return opts.SortBy
}

// Paginate slices 1-indexed pages. Out-of-range pages yield an empty slice.
func Paginate(reviews []domain.Review, page, perPage int) []domain.Review {
	if page < 1 || perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(reviews) {
		return nil
	}
	end := start + perPage
	if end > len(reviews) {
		end = len(reviews)
	}
	return reviews[start:end]
}

// Stars renders a five-character rating bar.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func reviewVars(r domain.Review, opts sanitize.Options) map[string]string {
	vars := map[string]string{
		"id":          html.EscapeString(r.ID),
		"author_name": html.EscapeString(r.AuthorName),
		"rating":      fmt.Sprintf("%d", r.Rating),
		"content":     r.Content, // already allow-list sanitized
		"date":        html.EscapeString(r.Date),
		"language":    html.EscapeString(r.Language),

		"author_image_tag": "",
		"rating_block":     "",
		"rating_stars":     "",
		"date_block":       "",
		"helpful_block":    "",
		"owner_block":      "",
	}
	if opts.ShowRating {
		vars["rating_stars"] = Stars(r.Rating)
		vars["rating_block"] = `<span class="gmr-stars">` + vars["rating_stars"] + `</span>`
	}
	if opts.ShowDate && r.Date != "" {
		vars["date_block"] = `<span class="gmr-date">` + vars["date"] + `</span>`
	}
	if opts.ShowAuthorImage && r.AuthorImage != "" {
		vars["author_image_tag"] = `<img class="gmr-avatar" src="` + html.EscapeString(r.AuthorImage) + `" alt="">`
	}
	if opts.ShowHelpfulVotes && r.HelpfulVotes > 0 {
		vars["helpful_block"] = fmt.Sprintf(`<span class="gmr-helpful">%d found this helpful</span>`, r.HelpfulVotes)
	}
	if opts.ShowOwnerResponse && r.OwnerResponse != "" {
		vars["owner_block"] = `<div class="gmr-owner-response">` + r.OwnerResponse + `</div>`
	}
	return vars
}

// wrapLayout puts the rendered items into one of the four layout shells.
func wrapLayout(items []string, opts sanitize.Options) string {
	class := "gmr-reviews gmr-layout-" + opts.Layout
	if opts.ContainerClass != "" {
		class += " " + opts.ContainerClass
	}

	var b strings.Builder
	b.WriteString(`<div class="` + class + `">`)
	if opts.Title != "" {
		b.WriteString(`<h3 class="gmr-title">` + html.EscapeString(opts.Title) + `</h3>`)
	}
	switch opts.Layout {
	case "cards", "grid":
		b.WriteString(`<div class="gmr-` + opts.Layout + `">`)
		for _, it := range items {
			b.WriteString(`<div class="gmr-cell">` + it + `</div>`)
		}
		b.WriteString(`</div>`)
	case "carousel":
		b.WriteString(`<div class="gmr-carousel" data-carousel="true">`)
		for _, it := range items {
			b.WriteString(`<div class="gmr-slide">` + it + `</div>`)
		}
		b.WriteString(`</div>`)
	default: // list
		b.WriteString(`<ul class="gmr-list">`)
		for _, it := range items {
			b.WriteString(`<li>` + it + `</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
