package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gmaps_reviews/internal/adapters/gmaps"
	"gmaps_reviews/internal/app"
	"gmaps_reviews/internal/domain"
)

// Pinger reports whether the browser automation endpoint is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	Token    string
	Reviews  *app.ReviewService
	Settings *app.SettingsService
	Cache    domain.Cache
	Scrapes  domain.ScrapeLogRepository
	Driver   Pinger
}

// adminResponse is the uniform admin envelope: exactly one of Data or Error
// is set, matching Success.
type adminResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) MountAdmin(a *AdminHandlers) {
	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(a.auth)
		r.Post("/test-url", a.testURL)
		r.Post("/refresh-cache", a.refreshCache)
		r.Post("/clear-cache", a.clearCache)
		r.Get("/cache-stats", a.cacheStats)
		r.Get("/settings", a.getSettings)
		r.Post("/settings", a.setSetting)
		r.Get("/settings/export", a.exportSettings)
		r.Post("/settings/import", a.importSettings)
		r.Get("/scrape-log", a.scrapeLog)
		r.Get("/test-connection", a.testConnection)
	})
}

func writeAdmin(w http.ResponseWriter, status int, resp adminResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("write admin response failed")
	}
}

func adminOK(w http.ResponseWriter, data any) {
	writeAdmin(w, http.StatusOK, adminResponse{Success: true, Data: data})
}

func adminErr(w http.ResponseWriter, status int, msg string) {
	writeAdmin(w, status, adminResponse{Success: false, Error: msg})
}

// auth requires a matching X-Admin-Token. An unset token disables the whole
// admin surface rather than leaving it open.
func (a *AdminHandlers) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Token == "" {
			adminErr(w, http.StatusServiceUnavailable, "admin API disabled: no token configured")
			return
		}
		got := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.Token)) != 1 {
			adminErr(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type urlRequest struct {
	URL        string `json:"url"`
	MaxReviews int    `json:"max_reviews,omitempty"`
}

func decodeURLRequest(w http.ResponseWriter, r *http.Request) (urlRequest, bool) {
	var req urlRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		adminErr(w, http.StatusBadRequest, "body must be JSON with a url field")
		return req, false
	}
	if req.URL == "" {
		adminErr(w, http.StatusBadRequest, "url is required")
		return req, false
	}
	return req, true
}

// testURL checks a place URL without touching the browser: scheme/host
// validation plus business-name extraction.
func (a *AdminHandlers) testURL(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}
	if err := gmaps.ValidateBusinessURL(req.URL); err != nil {
		adminOK(w, map[string]any{"valid": false, "reason": err.Error()})
		return
	}
	name, err := gmaps.BusinessNameFromURL(req.URL)
	if err != nil {
		adminOK(w, map[string]any{"valid": false, "reason": err.Error()})
		return
	}
	adminOK(w, map[string]any{"valid": true, "business_name": name})
}

func (a *AdminHandlers) refreshCache(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}
	max := req.MaxReviews
	if max <= 0 {
		max = 10
	}
	reviews, err := a.Reviews.RefreshReviews(r.Context(), req.URL, max, 0)
	if err != nil {
		adminErr(w, http.StatusBadGateway, err.Error())
		return
	}
	adminOK(w, map[string]any{"refreshed": len(reviews)})
}

func (a *AdminHandlers) clearCache(w http.ResponseWriter, r *http.Request) {
	n, err := a.Cache.Clear(r.Context())
	if err != nil {
		adminErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	adminOK(w, map[string]any{"cleared": n})
}

func (a *AdminHandlers) cacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Cache.Stats(r.Context())
	if err != nil {
		adminErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	adminOK(w, stats)
}

func (a *AdminHandlers) getSettings(w http.ResponseWriter, r *http.Request) {
	all, err := a.Settings.All(r.Context())
	if err != nil {
		adminErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	adminOK(w, all)
}

func (a *AdminHandlers) setSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil || req.Key == "" {
		adminErr(w, http.StatusBadRequest, "body must be JSON with key and value fields")
		return
	}
	if err := a.Settings.Set(r.Context(), req.Key, req.Value); err != nil {
		adminErr(w, http.StatusBadRequest, err.Error())
		return
	}
	v, _ := a.Settings.Get(r.Context(), req.Key)
	adminOK(w, map[string]string{req.Key: v})
}

func (a *AdminHandlers) exportSettings(w http.ResponseWriter, r *http.Request) {
	blob, err := a.Settings.Export(r.Context())
	if err != nil {
		adminErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gmr-settings.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func (a *AdminHandlers) importSettings(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		adminErr(w, http.StatusBadRequest, "read body failed")
		return
	}
	applied, err := a.Settings.Import(r.Context(), blob)
	if err != nil {
		adminErr(w, http.StatusBadRequest, err.Error())
		return
	}
	adminOK(w, map[string]int{"applied": applied})
}

func (a *AdminHandlers) scrapeLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil {
			limit = n
		}
	}
	entries, err := a.Scrapes.RecentScrapes(r.Context(), limit)
	if err != nil {
		adminErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	adminOK(w, entries)
}

func (a *AdminHandlers) testConnection(w http.ResponseWriter, r *http.Request) {
	if a.Driver == nil {
		adminErr(w, http.StatusServiceUnavailable, "automation driver not configured")
		return
	}
	if err := a.Driver.Ping(r.Context()); err != nil {
		adminOK(w, map[string]any{"connected": false, "reason": err.Error()})
		return
	}
	adminOK(w, map[string]any{"connected": true})
}
