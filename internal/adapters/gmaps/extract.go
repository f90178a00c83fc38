package gmaps

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gmaps_reviews/internal/domain"
)

var (
	starsPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*star`)
	digitsPattern = regexp.MustCompile(`\d[\d,.]*`)
)

// ExtractReviews parses review cards out of a rendered place page.
func ExtractReviews(pageSource string, max int) ([]domain.Review, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageSource))
	if err != nil {
		return nil, err
	}

	var cards *goquery.Selection
	for _, sel := range reviewCardSelectors {
		cards = doc.Find(sel)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return nil, domain.ErrNoReviewsFound
	}

	reviews := make([]domain.Review, 0, cards.Length())
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if max > 0 && len(reviews) >= max {
			return false
		}
		r := extractReview(card)
		if r.AuthorName == "" && r.Content == "" {
			return true // skeleton node, skip
		}
		reviews = append(reviews, r)
		return true
	})
	if len(reviews) == 0 {
		return nil, domain.ErrNoReviewsFound
	}
	return reviews, nil
}

func extractReview(card *goquery.Selection) domain.Review {
	r := domain.Review{
		ID:         card.AttrOr("data-review-id", ""),
		AuthorName: text(card.Find(selAuthor).First()),
		Content:    text(card.Find(selContent).First()),
		Date:       text(card.Find(selDate).First()),
	}
	if img := card.Find(selAvatar).First(); img.Length() > 0 {
		r.AuthorImage = img.AttrOr("src", "")
	}
	if stars := card.Find(selRating).First(); stars.Length() > 0 {
		r.Rating = parseStars(stars.AttrOr("aria-label", ""))
	}
	if btn := card.Find(selHelpful).First(); btn.Length() > 0 {
		r.HelpfulVotes = parseFirstInt(btn.AttrOr("aria-label", ""))
	}
	if resp := card.Find(selOwnerResponse).First(); resp.Length() > 0 {
		r.OwnerResponse = text(resp)
	}
	if lang, ok := card.Attr("lang"); ok {
		r.Language = lang
	}
	return r
}

// ExtractBusinessInfo parses the place header out of a rendered page.
func ExtractBusinessInfo(pageSource string) (domain.BusinessInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageSource))
	if err != nil {
		return domain.BusinessInfo{}, err
	}

	b := domain.BusinessInfo{
		Name:     text(doc.Find(selBizName).First()),
		Address:  itemText(doc, selBizAddress),
		Phone:    itemText(doc, selBizPhone),
		Category: text(doc.Find(selBizCategory).First()),
	}
	if b.Name == "" {
		return domain.BusinessInfo{}, domain.ErrNoReviewsSection
	}
	if a := doc.Find(selBizWebsite).First(); a.Length() > 0 {
		b.Website = a.AttrOr("href", "")
	}
	doc.Find(selBizRating).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if f, err := strconv.ParseFloat(strings.TrimSpace(sel.Text()), 64); err == nil && f >= 0 && f <= 5 {
			b.Rating = f
			return false
		}
		return true
	})
	if c := doc.Find(selBizCount).First(); c.Length() > 0 {
		b.ReviewCount = parseFirstInt(c.AttrOr("aria-label", c.Text()))
	}
	doc.Find(selBizHoursRow).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() >= 2 {
			b.Hours = append(b.Hours, domain.OpeningHours{
				Day:   text(cells.Eq(0)),
				Hours: text(cells.Eq(1)),
			})
		}
	})
	return b, nil
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// itemText reads Google's "label: value" buttons, dropping the label part.
func itemText(doc *goquery.Document, selector string) string {
	t := text(doc.Find(selector).First())
	if i := strings.Index(t, ":"); i >= 0 && i < 20 {
		t = strings.TrimSpace(t[i+1:])
	}
	return t
}

// parseStars reads ratings out of aria-labels like "5 stars" or
// "Rated 4.0 out of 5 stars".
func parseStars(label string) int {
	m := starsPattern.FindStringSubmatch(strings.ToLower(label))
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return int(f + 0.5)
}

func parseFirstInt(s string) int {
	m := digitsPattern.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	m = strings.Split(m, ".")[0]
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
