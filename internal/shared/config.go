package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	WebDriverURL    string
	AdminToken      string
	ScrapeRPS       int
	MaxReviews      int
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	RefreshWorkers  int
	RequestRPS      int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/gmr?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		WebDriverURL:    env("WEBDRIVER_URL", "http://localhost:9515"),
		AdminToken:      env("ADMIN_TOKEN", ""),
		ScrapeRPS:       atoi("SCRAPE_RPS", 2),
		MaxReviews:      atoi("MAX_REVIEWS", 50),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 3600)) * time.Second,
		RefreshInterval: time.Duration(atoi("REFRESH_INTERVAL_SECONDS", 21600)) * time.Second,
		RefreshWorkers:  atoi("REFRESH_WORKERS", 4),
		RequestRPS:      atoi("REQUEST_RPS", 10),
	}
	if c.AdminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN is empty; admin actions are disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
