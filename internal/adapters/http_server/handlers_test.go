package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpserver "gmaps_reviews/internal/adapters/http_server"
	"gmaps_reviews/internal/app"
	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/render"
)

// ---- fakes ----

type fakeScraper struct {
	reviews []domain.Review
	info    domain.BusinessInfo
	err     error
}

func (f *fakeScraper) ScrapeReviews(ctx context.Context, businessURL string, max int) ([]domain.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews, nil
}

func (f *fakeScraper) ScrapeBusinessInfo(ctx context.Context, businessURL string) (domain.BusinessInfo, error) {
	if f.err != nil {
		return domain.BusinessInfo{}, f.err
	}
	return f.info, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Review:
		*d = v.([]domain.Review)
	case *domain.BusinessInfo:
		*d = v.(domain.BusinessInfo)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { delete(c.store, key); return nil }

func (c *fakeCache) Clear(ctx context.Context) (int, error) {
	n := len(c.store)
	c.store = nil
	return n, nil
}

func (c *fakeCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	return domain.CacheStats{TotalItems: len(c.store), ValidItems: len(c.store)}, nil
}

type fakeSettingsRepo struct{ store map[string]string }

func (r *fakeSettingsRepo) GetOption(ctx context.Context, name string) (string, bool, error) {
	v, ok := r.store[name]
	return v, ok, nil
}

func (r *fakeSettingsRepo) SetOption(ctx context.Context, name, value string) error {
	if r.store == nil {
		r.store = map[string]string{}
	}
	r.store[name] = value
	return nil
}

func (r *fakeSettingsRepo) DeleteOption(ctx context.Context, name string) error {
	delete(r.store, name)
	return nil
}

func (r *fakeSettingsRepo) AllOptions(ctx context.Context) (map[string]string, error) {
	return r.store, nil
}

type fakeScrapeLog struct{ entries []domain.ScrapeLogEntry }

func (l *fakeScrapeLog) LogScrape(ctx context.Context, businessURL, status string, reviewCount int, detail string) error {
	l.entries = append(l.entries, domain.ScrapeLogEntry{BusinessURL: businessURL, Status: status, ReviewCount: reviewCount})
	return nil
}

func (l *fakeScrapeLog) RecentScrapes(ctx context.Context, limit int) ([]domain.ScrapeLogEntry, error) {
	return l.entries, nil
}

type fakePinger struct{ err error }

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

// ---- harness ----

const placeURL = "https://www.google.com/maps/place/Test+Cafe"

var placeURLq = url.QueryEscape(placeURL)

func sampleReviews() []domain.Review {
	return []domain.Review{
		{ID: "a", AuthorName: "Reviewer One", Rating: 5, Content: "great coffee and friendly staff here", Date: "2 weeks ago"},
		{ID: "b", AuthorName: "Reviewer Two", Rating: 3, Content: "decent but the queue was quite long", Date: "a month ago"},
		{ID: "c", AuthorName: "Reviewer Three", Rating: 5, Content: "best espresso in the neighbourhood", Date: "3 days ago"},
	}
}

func newTestServer(t *testing.T, sc *fakeScraper) (http.Handler, *fakeCache) {
	t.Helper()
	cache := &fakeCache{}
	reviews := app.NewReviewService(sc, cache, &fakeScrapeLog{}, time.Hour)
	settings := app.NewSettingsService(&fakeSettingsRepo{})

	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{
		Reviews:  reviews,
		Settings: settings,
		Renderer: render.New(nil),
	})
	srv.MountAdmin(&httpserver.AdminHandlers{
		Token:    "sekrit",
		Reviews:  reviews,
		Settings: settings,
		Cache:    cache,
		Scrapes:  &fakeScrapeLog{},
		Driver:   &fakePinger{},
	})
	return srv.Mux(), cache
}

func doReq(t *testing.T, h http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- public API ----

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})
	rec := doReq(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestListReviews_RequiresURL(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})
	rec := doReq(t, h, http.MethodGet, "/v1/reviews", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestListReviews_InvalidFiltersRejected(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{reviews: sampleReviews()})

	for _, q := range []string{
		"min_rating=9",
		"date_range=decade",
		"sort_by=alphabetical",
		"date_range=custom&custom_start_date=2024-06-01&custom_end_date=2024-01-01",
	} {
		rec := doReq(t, h, http.MethodGet, "/v1/reviews?business_url="+placeURLq+"&"+q, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, body %s", q, rec.Code, rec.Body.String())
		}
	}
}

func TestListReviews_FilteredJSON(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{reviews: sampleReviews()})

	rec := doReq(t, h, http.MethodGet, "/v1/reviews?business_url="+placeURLq+"&min_rating=4", nil)
	if rec.Code != 200 {
		t.Fatalf("status: %d, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Reviews []domain.Review `json:"reviews"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Reviews) != 2 {
		t.Fatalf("want the two 5-star reviews, got %+v", out)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	rec2 := doReq(t, h, http.MethodGet, "/v1/reviews?business_url="+placeURLq+"&min_rating=4",
		map[string]string{"If-None-Match": etag})
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("conditional get: %d", rec2.Code)
	}
}

func TestListReviews_ScraperDownIs503(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{err: domain.ErrBrowserUnavailable})
	rec := doReq(t, h, http.MethodGet, "/v1/reviews?business_url="+placeURLq, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestReviewsHTML_Fragment(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{reviews: sampleReviews()})

	rec := doReq(t, h, http.MethodGet, "/v1/reviews/html?business_url="+placeURLq+"&layout=grid&title=Our+Reviews", nil)
	if rec.Code != 200 {
		t.Fatalf("status: %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type: %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "gmr-layout-grid") || !strings.Contains(body, "Our Reviews") {
		t.Fatalf("fragment: %s", body)
	}
	if !strings.Contains(body, "Reviewer One") {
		t.Fatalf("review missing: %s", body)
	}
}

func TestReviewStats(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{reviews: sampleReviews()})

	rec := doReq(t, h, http.MethodGet, "/v1/reviews/stats?business_url="+placeURLq, nil)
	if rec.Code != 200 {
		t.Fatalf("status: %d", rec.Code)
	}
	var stats struct {
		Total         int     `json:"total"`
		AverageRating float64 `json:"average_rating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 3 || stats.AverageRating < 4.3 || stats.AverageRating > 4.4 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestGetBusiness(t *testing.T) {
	sc := &fakeScraper{info: domain.BusinessInfo{Name: "Test Cafe", Rating: 4.4, ReviewCount: 128}}
	h, _ := newTestServer(t, sc)

	rec := doReq(t, h, http.MethodGet, "/v1/business?business_url="+placeURLq, nil)
	if rec.Code != 200 {
		t.Fatalf("status: %d, body %s", rec.Code, rec.Body.String())
	}
	var info domain.BusinessInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Name != "Test Cafe" || info.ReviewCount != 128 {
		t.Fatalf("info: %+v", info)
	}
}

// ---- admin API ----

func TestAdmin_AuthRequired(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})

	rec := doReq(t, h, http.MethodPost, "/v1/admin/clear-cache", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}
	rec = doReq(t, h, http.MethodPost, "/v1/admin/clear-cache", map[string]string{"X-Admin-Token": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}
}

func TestAdmin_ClearCache(t *testing.T) {
	h, cache := newTestServer(t, &fakeScraper{reviews: sampleReviews()})
	_ = cache.Set(context.Background(), "gmr:reviews:abc", sampleReviews(), 60)

	rec := doReq(t, h, http.MethodPost, "/v1/admin/clear-cache", map[string]string{"X-Admin-Token": "sekrit"})
	if rec.Code != 200 {
		t.Fatalf("status: %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data["cleared"] != 1 {
		t.Fatalf("resp: %+v", resp)
	}
	if len(cache.store) != 0 {
		t.Fatal("cache not cleared")
	}
}

func TestAdmin_TestURL(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/test-url",
		strings.NewReader(`{"url":"`+placeURL+`"}`))
	req.Header.Set("X-Admin-Token", "sekrit")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data["valid"] != true || resp.Data["business_name"] != "Test Cafe" {
		t.Fatalf("resp: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/test-url",
		strings.NewReader(`{"url":"https://example.com/not-maps"}`))
	req.Header.Set("X-Admin-Token", "sekrit")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data["valid"] != false {
		t.Fatalf("resp: %+v", resp)
	}
}

func TestAdmin_SettingsRoundtrip(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})
	hdr := map[string]string{"X-Admin-Token": "sekrit"}

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/settings",
		strings.NewReader(`{"key":"default_layout","value":"carousel"}`))
	req.Header.Set("X-Admin-Token", "sekrit")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("set: %d, %s", rec.Code, rec.Body.String())
	}

	rec = doReq(t, h, http.MethodGet, "/v1/admin/settings", hdr)
	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["default_layout"] != "carousel" {
		t.Fatalf("settings: %+v", resp.Data)
	}
}

func TestAdmin_TestConnection(t *testing.T) {
	h, _ := newTestServer(t, &fakeScraper{})

	rec := doReq(t, h, http.MethodGet, "/v1/admin/test-connection", map[string]string{"X-Admin-Token": "sekrit"})
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["connected"] != true {
		t.Fatalf("resp: %+v", resp)
	}
}
