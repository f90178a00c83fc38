package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"gmaps_reviews/internal/adapters/gmaps"
	server "gmaps_reviews/internal/adapters/http_server"
	"gmaps_reviews/internal/adapters/observability"
	redisad "gmaps_reviews/internal/adapters/redis"
	"gmaps_reviews/internal/adapters/webdriver"
	"gmaps_reviews/internal/app"
	"gmaps_reviews/internal/render"
	"gmaps_reviews/internal/shared"
	mysqlrepo "gmaps_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	driver := webdriver.New(cfg.WebDriverURL, cfg.ScrapeRPS)
	scraper := gmaps.New(driver)

	reviews := app.NewReviewService(scraper, cache, repo, cfg.CacheTTL)
	settings := app.NewSettingsService(repo)

	// http
	srv := server.New(cfg.RequestRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reviews:  reviews,
		Settings: settings,
		Renderer: render.New(nil),
	})
	srv.MountAdmin(&server.AdminHandlers{
		Token:    cfg.AdminToken,
		Reviews:  reviews,
		Settings: settings,
		Cache:    cache,
		Scrapes:  repo,
		Driver:   driver,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
