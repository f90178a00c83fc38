package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"gmaps_reviews/internal/adapters/observability"
	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/sanitize"
	"gmaps_reviews/internal/validate"
)

// ReviewService is the scrape orchestrator: cache lookup, one scrape attempt
// on a miss, write-through on success. Failures surface as the domain's
// typed errors; retries, if any, are the automation layer's business.
type ReviewService struct {
	scraper  domain.ReviewScraper
	cache    domain.Cache
	scrapes  domain.ScrapeLogRepository
	cacheTTL time.Duration
}

func NewReviewService(s domain.ReviewScraper, c domain.Cache, sl domain.ScrapeLogRepository, ttl time.Duration) *ReviewService {
	return &ReviewService{scraper: s, cache: c, scrapes: sl, cacheTTL: ttl}
}

func (s *ReviewService) ttlSec(override int) int {
	if override > 0 {
		return override
	}
	return int(s.cacheTTL.Seconds())
}

// GetReviews returns cached reviews for the URL, scraping on a miss.
// ttlOverride <= 0 uses the service default.
func (s *ReviewService) GetReviews(ctx context.Context, businessURL string, max, ttlOverride int) ([]domain.Review, error) {
	key := domain.CacheKey("reviews", businessURL)
	var cached []domain.Review
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("review cache read failed")
	}
	return s.RefreshReviews(ctx, businessURL, max, ttlOverride)
}

// RefreshReviews scrapes unconditionally and overwrites the cache entry.
func (s *ReviewService) RefreshReviews(ctx context.Context, businessURL string, max, ttlOverride int) ([]domain.Review, error) {
	start := time.Now()
	raw, err := s.scraper.ScrapeReviews(ctx, businessURL, max)
	observability.ObserveScrape("reviews", err, time.Since(start))
	if err != nil {
		s.logScrape(ctx, businessURL, "failed", 0, err.Error())
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(raw))
	for _, r := range raw {
		cleaned := sanitize.Review(r)
		if res := validate.Review(cleaned); !res.Valid {
			log.Debug().Str("review", cleaned.ID).Strs("errors", res.Errors).Msg("review dropped by validation")
			continue
		}
		reviews = append(reviews, cleaned)
	}
	if len(reviews) == 0 {
		s.logScrape(ctx, businessURL, "empty", 0, "")
		return nil, domain.ErrNoReviewsFound
	}

	if err := s.cache.Set(ctx, domain.CacheKey("reviews", businessURL), reviews, s.ttlSec(ttlOverride)); err != nil {
		log.Warn().Err(err).Msg("review cache write failed")
	}
	s.logScrape(ctx, businessURL, "ok", len(reviews), "")
	return reviews, nil
}

// GetBusinessInfo returns the cached place record, scraping on a miss.
func (s *ReviewService) GetBusinessInfo(ctx context.Context, businessURL string, ttlOverride int) (domain.BusinessInfo, error) {
	key := domain.CacheKey("business_info", businessURL)
	var cached domain.BusinessInfo
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("business cache read failed")
	}

	start := time.Now()
	raw, err := s.scraper.ScrapeBusinessInfo(ctx, businessURL)
	observability.ObserveScrape("business_info", err, time.Since(start))
	if err != nil {
		return domain.BusinessInfo{}, err
	}
	info := sanitize.BusinessInfo(raw)
	if res := validate.BusinessInfo(info); !res.Valid {
		log.Warn().Strs("errors", res.Errors).Msg("business info failed validation")
		return domain.BusinessInfo{}, domain.ErrNotFound
	}
	if err := s.cache.Set(ctx, key, info, s.ttlSec(ttlOverride)); err != nil {
		log.Warn().Err(err).Msg("business cache write failed")
	}
	return info, nil
}

// InvalidateURL drops both cache entries for a business URL.
func (s *ReviewService) InvalidateURL(ctx context.Context, businessURL string) {
	_ = s.cache.Del(ctx, domain.CacheKey("reviews", businessURL))
	_ = s.cache.Del(ctx, domain.CacheKey("business_info", businessURL))
}

// logScrape is best-effort: audit failures never fail the pipeline.
func (s *ReviewService) logScrape(ctx context.Context, businessURL, status string, count int, detail string) {
	if s.scrapes == nil {
		return
	}
	if err := s.scrapes.LogScrape(ctx, businessURL, status, count, detail); err != nil {
		log.Debug().Err(err).Msg("scrape log write failed")
	}
}
