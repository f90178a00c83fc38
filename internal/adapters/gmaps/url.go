package gmaps

import (
	"fmt"
	"net/url"
	"strings"

	"gmaps_reviews/internal/domain"
)

// ValidateBusinessURL checks that the URL is a Google Maps place link.
func ValidateBusinessURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	host := strings.ToLower(u.Host)
	isMapsHost := strings.HasSuffix(host, ".google.com") || host == "google.com" ||
		host == "maps.google.com" || strings.HasPrefix(host, "www.google.")
	if !isMapsHost {
		return fmt.Errorf("%w: host %q", domain.ErrInvalidURL, u.Host)
	}
	if !strings.Contains(u.Path, "/maps") {
		return fmt.Errorf("%w: not a maps path", domain.ErrInvalidURL)
	}
	return nil
}

// BusinessNameFromURL derives the search term from a /maps/place/ URL.
func BusinessNameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBusinessNameExtraction, err)
	}
	const marker = "/maps/place/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: no place segment", domain.ErrBusinessNameExtraction)
	}
	seg := u.Path[idx+len(marker):]
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	seg = strings.ReplaceAll(seg, "+", " ")
	if dec, err := url.PathUnescape(seg); err == nil {
		seg = dec
	}
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return "", fmt.Errorf("%w: empty place segment", domain.ErrBusinessNameExtraction)
	}
	return seg, nil
}
