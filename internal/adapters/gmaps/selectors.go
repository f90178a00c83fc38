package gmaps

// Selector sets, most-specific first. Google rotates its class names, so each
// lookup walks the candidates until one matches (same pattern as trying
// endpoint variants against a drifting API).
var (
	consentSelectors = []string{
		`button[aria-label="Accept all"]`,
		`form[action*="consent"] button`,
	}
	reviewsTabSelectors = []string{
		`button[role="tab"][aria-label*="Reviews"]`,
		`button[data-tab-index="1"]`,
		`a[href*="reviews"]`,
	}
	moreButtonSelectors = []string{
		`button[aria-label="See more"]`,
		`button[jsaction*="review.expandReview"]`,
	}
	reviewCardSelectors = []string{
		`div[data-review-id]`,
		`div.jftiEf`,
	}
	scrollPaneSelectors = []string{
		`div[role="main"] div[tabindex="-1"]`,
		`div.m6QErb.DxyBCb`,
	}
)

// Relative selectors inside one review card.
const (
	selAuthor        = `div[class*="d4r55"], .gmr-author, [aria-label][class*="author"]`
	selRating        = `span[role="img"][aria-label*="star"]`
	selContent       = `span[class*="wiI7pd"], span[data-expandable-section]`
	selDate          = `span[class*="rsqaWe"]`
	selHelpful       = `button[aria-label*="helpful"]`
	selOwnerResponse = `div[class*="CDe7pd"] span[class*="wiI7pd"]`
	selAvatar        = `img[class*="NBa7we"]`
)

// Place-level selectors.
const (
	selBizName     = `h1`
	selBizRating   = `div[role="main"] span[aria-hidden="true"]`
	selBizCount    = `span[aria-label*="reviews"], button[aria-label*="reviews"]`
	selBizAddress  = `button[data-item-id="address"]`
	selBizPhone    = `button[data-item-id*="phone"]`
	selBizWebsite  = `a[data-item-id="authority"]`
	selBizCategory = `button[jsaction*="category"]`
	selBizHoursRow = `table[class*="eK4R0e"] tr, div[aria-label*="Hours"] tr`
)
