package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"gmaps_reviews/internal/adapters/gmaps"
	"gmaps_reviews/internal/adapters/observability"
	redisad "gmaps_reviews/internal/adapters/redis"
	"gmaps_reviews/internal/adapters/webdriver"
	"gmaps_reviews/internal/app"
	"gmaps_reviews/internal/shared"
	mysqlrepo "gmaps_reviews/internal/storage/mysql"
)

// The refresher keeps the cache warm: every interval it re-scrapes each
// configured business URL so public reads rarely hit a cold cache.
func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("driver", cfg.WebDriverURL).
		Int("workers", cfg.RefreshWorkers).
		Dur("interval", cfg.RefreshInterval).
		Msg("refresher starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	driver := webdriver.New(cfg.WebDriverURL, cfg.ScrapeRPS)
	scraper := gmaps.New(driver)

	reviews := app.NewReviewService(scraper, cache, repo, cfg.CacheTTL)
	settings := app.NewSettingsService(repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run once at startup, then on every tick
	refreshAll(ctx, cfg, reviews, settings)

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("refresher stopping")
			return
		case <-ticker.C:
			refreshAll(ctx, cfg, reviews, settings)
		}
	}
}

func refreshAll(ctx context.Context, cfg shared.Config, reviews *app.ReviewService, settings *app.SettingsService) {
	urls, err := settings.BusinessURLs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load business urls failed")
		return
	}
	if len(urls) == 0 {
		log.Info().Msg("no business urls configured; nothing to refresh")
		return
	}

	max, err := settings.GetInt(ctx, "max_reviews")
	if err != nil || max <= 0 {
		max = cfg.MaxReviews
	}

	sem := semaphore.NewWeighted(int64(cfg.RefreshWorkers))
	var wg sync.WaitGroup

	for _, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("semaphore acquire failed; aborting cycle")
			break
		}

		wg.Add(1)
		go func(businessURL string) {
			defer wg.Done()
			defer sem.Release(1)

			got, err := reviews.RefreshReviews(ctx, businessURL, max, 0)
			if err != nil {
				log.Warn().Str("url", businessURL).Err(err).Msg("refresh failed")
				return
			}
			if _, err := reviews.GetBusinessInfo(ctx, businessURL, 0); err != nil {
				log.Warn().Str("url", businessURL).Err(err).Msg("business info refresh failed")
			}
			log.Info().Str("url", businessURL).Int("reviews", len(got)).Msg("refresh ok")
		}(u)
	}

	wg.Wait()
	log.Info().Int("urls", len(urls)).Msg("refresh cycle completed")
}
