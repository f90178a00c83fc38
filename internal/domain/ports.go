package domain

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Cache is an expiring key/value store (Redis in production).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// Clear removes every entry under the service prefix and reports how many
	// were deleted. O(n) scan; cache volume is one entry per configured URL.
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context) (CacheStats, error)
}

type CacheStats struct {
	TotalItems   int   `json:"total_items"`
	ValidItems   int   `json:"valid_items"`
	ExpiredItems int   `json:"expired_items"`
	TotalSize    int64 `json:"total_size"`
}

// CacheKey derives the store key for a business URL. typ distinguishes
// "reviews" from "business_info" entries for the same URL.
func CacheKey(typ, businessURL string) string {
	sum := sha1.Sum([]byte(businessURL))
	return "gmr:" + typ + ":" + hex.EncodeToString(sum[:])
}

// Element is an opaque handle to a DOM node held by the automation session.
type Element struct {
	ID string
}

// Browser is the narrow surface this service consumes from the external
// browser-automation collaborator. Browser control itself is never
// implemented here; adapters only speak its wire protocol.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	FindElements(ctx context.Context, cssSelector string) ([]Element, error)
	Click(ctx context.Context, el Element) error
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)
	PageSource(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// BrowserFactory opens fresh automation sessions. Each scrape runs in its
// own session.
type BrowserFactory interface {
	NewSession(ctx context.Context) (Browser, error)
}

// ReviewScraper produces review/business records for a Google Maps place URL.
type ReviewScraper interface {
	ScrapeReviews(ctx context.Context, businessURL string, max int) ([]Review, error)
	ScrapeBusinessInfo(ctx context.Context, businessURL string) (BusinessInfo, error)
}

// SettingsRepository is the flat key/value options store.
type SettingsRepository interface {
	GetOption(ctx context.Context, name string) (string, bool, error)
	SetOption(ctx context.Context, name, value string) error
	DeleteOption(ctx context.Context, name string) error
	AllOptions(ctx context.Context) (map[string]string, error)
}

// ScrapeLogRepository records per-URL scrape outcomes for diagnostics.
type ScrapeLogRepository interface {
	LogScrape(ctx context.Context, businessURL, status string, reviewCount int, detail string) error
	RecentScrapes(ctx context.Context, limit int) ([]ScrapeLogEntry, error)
}

type ScrapeLogEntry struct {
	ID          int64     `json:"id"`
	BusinessURL string    `json:"business_url"`
	Status      string    `json:"status"`
	ReviewCount int       `json:"review_count"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
