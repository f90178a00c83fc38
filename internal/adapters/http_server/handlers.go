package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"gmaps_reviews/internal/app"
	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/filter"
	"gmaps_reviews/internal/render"
	"gmaps_reviews/internal/sanitize"
)

type Handlers struct {
	Reviews  *app.ReviewService
	Settings *app.SettingsService
	Renderer *render.Renderer
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/reviews/html", h.reviewsHTML)
	s.mux.Get("/v1/reviews/stats", h.reviewStats)
	s.mux.Get("/v1/business", h.getBusiness)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainError maps the typed scraper errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrBusinessNameExtraction):
		writeProblem(w, http.StatusBadRequest, "Invalid URL", err.Error())
	case errors.Is(err, domain.ErrNoReviewsSection), errors.Is(err, domain.ErrNoReviewsFound), errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrBrowserUnavailable), errors.Is(err, domain.ErrBrowserInit):
		writeProblem(w, http.StatusServiceUnavailable, "Automation Unavailable", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// filtersFromQuery pulls the optional filter set out of the query string.
// Values are taken as-is; validation is the caller's job.
func filtersFromQuery(r *http.Request) filter.Filters {
	q := r.URL.Query()
	f := filter.Filters{
		DateRange:       strings.ToLower(q.Get("date_range")),
		CustomStartDate: q.Get("custom_start_date"),
		CustomEndDate:   q.Get("custom_end_date"),
		SortBy:          strings.ToLower(q.Get("sort_by")),
	}
	if mr := q.Get("min_rating"); mr != "" {
		f.MinRating, _ = strconv.Atoi(mr)
		if f.MinRating == 0 {
			f.MinRating = -1 // non-numeric input must not pass as "unset"
		}
	}
	return f
}

func (h *Handlers) fetch(r *http.Request) ([]domain.Review, filter.Filters, error) {
	businessURL := sanitize.URL(r.URL.Query().Get("business_url"))
	if businessURL == "" {
		return nil, filter.Filters{}, domain.ErrInvalidURL
	}

	f := filtersFromQuery(r)
	if errs := filter.Validate(f); len(errs) > 0 {
		return nil, f, &filterError{errs: errs}
	}

	max := 10
	if ms := r.URL.Query().Get("max_reviews"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil {
			max = sanitize.IntRange(n, 1, 100)
		}
	}

	reviews, err := h.Reviews.GetReviews(r.Context(), businessURL, max, 0)
	if err != nil {
		return nil, f, err
	}
	return filter.Apply(reviews, f), f, nil
}

// filterError carries the advisory validation messages up to the handler,
// where they become a 400 instead of being silently ignored.
type filterError struct{ errs []string }

func (e *filterError) Error() string { return strings.Join(e.errs, "; ") }

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, _, err := h.fetch(r)
	if err != nil {
		var fe *filterError
		if errors.As(err, &fe) {
			writeProblem(w, http.StatusBadRequest, "Invalid Filters", fe.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

func (h *Handlers) reviewStats(w http.ResponseWriter, r *http.Request) {
	reviews, _, err := h.fetch(r)
	if err != nil {
		var fe *filterError
		if errors.As(err, &fe) {
			writeProblem(w, http.StatusBadRequest, "Invalid Filters", fe.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, filter.Collect(reviews))
}

// reviewsHTML renders the widget fragment. All presentation knobs come from
// the query string and go through the same attribute cleaning as embeds.
func (h *Handlers) reviewsHTML(w http.ResponseWriter, r *http.Request) {
	attrs := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			attrs[k] = vs[0]
		}
	}
	opts := sanitize.ParseOptions(attrs)
	if opts.BusinessURL == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid URL", "business_url is required")
		return
	}

	reviews, err := h.Reviews.GetReviews(r.Context(), opts.BusinessURL, opts.MaxReviews, opts.CacheDuration)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var frag strings.Builder
	if opts.ShowBusinessInfo {
		if info, err := h.Reviews.GetBusinessInfo(r.Context(), opts.BusinessURL, opts.CacheDuration); err == nil {
			frag.WriteString(h.Renderer.BusinessInfo(info, opts))
		} else {
			log.Warn().Err(err).Msg("business info block skipped")
		}
	}
	frag.WriteString(h.Renderer.Reviews(reviews, opts))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(frag.String())); err != nil {
		log.Error().Err(err).Msg("failed to write HTML fragment")
	}
}

func (h *Handlers) getBusiness(w http.ResponseWriter, r *http.Request) {
	businessURL := sanitize.URL(r.URL.Query().Get("business_url"))
	if businessURL == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid URL", "business_url is required")
		return
	}
	info, err := h.Reviews.GetBusinessInfo(r.Context(), businessURL, 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, info)
}
