// Package gmaps holds the Google Maps extraction heuristics: URL checks,
// CSS selector sets, popup handling, and page-source parsing. All browser
// control goes through the domain Browser port.
package gmaps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gmaps_reviews/internal/domain"
)

type Scraper struct {
	browsers domain.BrowserFactory

	// pacing between scroll steps while review lists lazy-load
	scrollPause time.Duration
	scrollSteps int
}

type Option func(*Scraper)

// WithPacing overrides the lazy-load pacing. Tests use tiny values.
func WithPacing(pause time.Duration, steps int) Option {
	return func(s *Scraper) {
		s.scrollPause = pause
		s.scrollSteps = steps
	}
}

func New(browsers domain.BrowserFactory, opts ...Option) *Scraper {
	s := &Scraper{browsers: browsers, scrollPause: 1500 * time.Millisecond, scrollSteps: 6}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) ScrapeReviews(ctx context.Context, businessURL string, max int) ([]domain.Review, error) {
	if err := ValidateBusinessURL(businessURL); err != nil {
		return nil, err
	}
	if _, err := BusinessNameFromURL(businessURL); err != nil {
		return nil, err
	}

	b, err := s.browsers.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := b.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Debug().Err(cerr).Msg("browser session close failed")
		}
	}()

	if err := b.Navigate(ctx, businessURL); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	s.dismissConsent(ctx, b)

	if err := s.openReviewsTab(ctx, b); err != nil {
		return nil, err
	}
	s.loadMoreReviews(ctx, b, max)
	s.expandReviews(ctx, b)

	src, err := b.PageSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("page source: %w", err)
	}
	reviews, err := ExtractReviews(src, max)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(reviews)).Str("url", businessURL).Msg("reviews extracted")
	return reviews, nil
}

func (s *Scraper) ScrapeBusinessInfo(ctx context.Context, businessURL string) (domain.BusinessInfo, error) {
	if err := ValidateBusinessURL(businessURL); err != nil {
		return domain.BusinessInfo{}, err
	}

	b, err := s.browsers.NewSession(ctx)
	if err != nil {
		return domain.BusinessInfo{}, err
	}
	defer func() {
		if cerr := b.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Debug().Err(cerr).Msg("browser session close failed")
		}
	}()

	if err := b.Navigate(ctx, businessURL); err != nil {
		return domain.BusinessInfo{}, fmt.Errorf("navigate: %w", err)
	}
	s.dismissConsent(ctx, b)
	sleepCtx(ctx, s.scrollPause)

	src, err := b.PageSource(ctx)
	if err != nil {
		return domain.BusinessInfo{}, fmt.Errorf("page source: %w", err)
	}
	return ExtractBusinessInfo(src)
}

// dismissConsent clicks through the cookie/consent interstitial when shown.
// Best effort; the page may not present one.
func (s *Scraper) dismissConsent(ctx context.Context, b domain.Browser) {
	if el, ok := findFirst(ctx, b, consentSelectors); ok {
		if err := b.Click(ctx, el); err == nil {
			sleepCtx(ctx, s.scrollPause)
		}
	}
}

func (s *Scraper) openReviewsTab(ctx context.Context, b domain.Browser) error {
	el, ok := findFirst(ctx, b, reviewsTabSelectors)
	if !ok {
		return domain.ErrNoReviewsSection
	}
	if err := b.Click(ctx, el); err != nil {
		return fmt.Errorf("open reviews tab: %w", err)
	}
	sleepCtx(ctx, s.scrollPause)
	return nil
}

// loadMoreReviews scrolls the review pane until enough cards are present or
// the step budget runs out.
func (s *Scraper) loadMoreReviews(ctx context.Context, b domain.Browser, want int) {
	for i := 0; i < s.scrollSteps; i++ {
		if cards, _ := b.FindElements(ctx, reviewCardSelectors[0]); len(cards) >= want {
			return
		}
		_, err := b.ExecuteScript(ctx, scrollScript)
		if err != nil {
			return
		}
		if !sleepCtx(ctx, s.scrollPause) {
			return
		}
	}
}

// expandReviews clicks every "See more" so truncated texts are present in
// the page source.
func (s *Scraper) expandReviews(ctx context.Context, b domain.Browser) {
	for _, sel := range moreButtonSelectors {
		els, err := b.FindElements(ctx, sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			_ = b.Click(ctx, el)
		}
		if len(els) > 0 {
			sleepCtx(ctx, s.scrollPause/2)
			return
		}
	}
}

var scrollScript = `
const panes = document.querySelectorAll('` + strings.Join(scrollPaneSelectors, ", ") + `');
for (const p of panes) { p.scrollTop = p.scrollHeight; }
`

func findFirst(ctx context.Context, b domain.Browser, selectors []string) (domain.Element, bool) {
	for _, sel := range selectors {
		els, err := b.FindElements(ctx, sel)
		if err == nil && len(els) > 0 {
			return els[0], true
		}
	}
	return domain.Element{}, false
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
