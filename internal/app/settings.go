package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/sanitize"
)

// Defaults for every recognized option key. Unknown keys are rejected on
// write, so the store only ever holds this set.
var defaultSettings = map[string]string{
	"business_urls":      "[]", // JSON array of configured place URLs
	"cache_duration":     "3600",
	"max_reviews":        "10",
	"default_layout":     "list",
	"default_theme":      "default",
	"min_rating":         "1",
	"sort_by":            "date-new",
	"sort_order":         "desc",
	"show_rating":        "true",
	"show_date":          "true",
	"show_author_image":  "true",
	"show_helpful_votes": "false",
	"show_owner_response": "false",
	"show_business_info": "false",
	"rate_limit_enabled": "true",
	"logging_enabled":    "true",
}

// SettingsService reads and writes the flat options store, applying the
// documented defaults and per-key sanitization.
type SettingsService struct {
	repo domain.SettingsRepository
}

func NewSettingsService(r domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: r}
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	def, known := defaultSettings[key]
	if !known {
		return "", fmt.Errorf("%w: option %q", domain.ErrNotFound, key)
	}
	v, ok, err := s.repo.GetOption(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *SettingsService) GetInt(ctx context.Context, key string) (int, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return strconv.Atoi(defaultSettings[key])
	}
	return n, nil
}

func (s *SettingsService) GetBool(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return sanitize.Bool(v), nil
}

// Set sanitizes and persists one option. Unknown keys are rejected.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	cleaned, err := sanitizeOption(key, value)
	if err != nil {
		return err
	}
	return s.repo.SetOption(ctx, key, cleaned)
}

// All returns the full effective settings map (defaults overlaid with the
// stored values).
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		out[k] = v
	}
	stored, err := s.repo.AllOptions(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range stored {
		if _, known := defaultSettings[k]; known {
			out[k] = v
		}
	}
	return out, nil
}

// BusinessURLs decodes the configured place URL list.
func (s *SettingsService) BusinessURLs(ctx context.Context) ([]string, error) {
	raw, err := s.Get(ctx, "business_urls")
	if err != nil {
		return nil, err
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, fmt.Errorf("business_urls is not a JSON array: %w", err)
	}
	return urls, nil
}

// Export serializes the effective settings as JSON.
func (s *SettingsService) Export(ctx context.Context) ([]byte, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(all, "", "  ")
}

// Import applies a JSON settings export. Unknown keys are skipped, known
// keys are sanitized individually; the first persistence error aborts.
func (s *SettingsService) Import(ctx context.Context, data []byte) (int, error) {
	var in map[string]string
	if err := json.Unmarshal(data, &in); err != nil {
		return 0, fmt.Errorf("settings import: %w", err)
	}
	applied := 0
	for k, v := range in {
		if _, known := defaultSettings[k]; !known {
			continue
		}
		if err := s.Set(ctx, k, v); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func sanitizeOption(key, value string) (string, error) {
	switch key {
	case "business_urls":
		var urls []string
		if err := json.Unmarshal([]byte(value), &urls); err != nil {
			return "", fmt.Errorf("business_urls must be a JSON array of URLs")
		}
		cleaned := make([]string, 0, len(urls))
		for _, u := range urls {
			if cu := sanitize.URL(u); cu != "" {
				cleaned = append(cleaned, cu)
			}
		}
		b, _ := json.Marshal(cleaned)
		return string(b), nil
	case "cache_duration":
		n, _ := strconv.Atoi(strings.TrimSpace(value))
		return strconv.Itoa(sanitize.IntRange(n, 60, 86400*7)), nil
	case "max_reviews":
		n, _ := strconv.Atoi(strings.TrimSpace(value))
		return strconv.Itoa(sanitize.IntRange(n, 1, 100)), nil
	case "min_rating":
		n, _ := strconv.Atoi(strings.TrimSpace(value))
		return strconv.Itoa(sanitize.IntRange(n, 1, 5)), nil
	case "default_layout":
		return sanitize.Enum(value, sanitize.Layouts, "list"), nil
	case "default_theme":
		return sanitize.Enum(value, sanitize.Themes, "default"), nil
	case "sort_by":
		return sanitize.Enum(value, sanitize.SortKeys, "date-new"), nil
	case "sort_order":
		return sanitize.Enum(value, sanitize.SortOrders, "desc"), nil
	case "show_rating", "show_date", "show_author_image", "show_helpful_votes",
		"show_owner_response", "show_business_info",
		"rate_limit_enabled", "logging_enabled":
		return strconv.FormatBool(sanitize.Bool(value)), nil
	default:
		return "", fmt.Errorf("unknown option %q", key)
	}
}
