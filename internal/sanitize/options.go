package sanitize

import "strconv"

// Options is the cleaned shortcode/widget attribute set.
type Options struct {
	BusinessURL       string
	MaxReviews        int
	Layout            string
	Theme             string
	ShowRating        bool
	ShowDate          bool
	ShowAuthorImage   bool
	ShowHelpfulVotes  bool
	ShowOwnerResponse bool
	ShowBusinessInfo  bool
	SortBy            string
	SortOrder         string
	MinRating         int
	CacheDuration     int
	ContainerClass    string
	Title             string
	Page              int
	PerPage           int
}

var (
	Layouts    = []string{"list", "cards", "carousel", "grid"}
	Themes     = []string{"default", "modern", "minimal", "card", "compact"}
	SortKeys   = []string{"date-new", "date-old", "rating-high", "rating-low", "helpful"}
	SortOrders = []string{"desc", "asc"}
)

// attribute aliases kept for backwards compatibility with older embeds
var optionAliases = map[string]string{
	"url": "business_url",
	"max": "max_reviews",
}

// ParseOptions maps a raw attribute set to Options. Unknown keys are ignored,
// missing keys fall back to defaults, numeric fields are clamped.
func ParseOptions(attrs map[string]string) Options {
	get := func(key string) string {
		if v, ok := attrs[key]; ok {
			return v
		}
		for alias, canonical := range optionAliases {
			if canonical == key {
				if v, ok := attrs[alias]; ok {
					return v
				}
			}
		}
		return ""
	}
	atoi := func(key string, def int) int {
		v := get(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	boolOr := func(key string, def bool) bool {
		v := get(key)
		if v == "" {
			return def
		}
		return Bool(v)
	}

	return Options{
		BusinessURL:       URL(get("business_url")),
		MaxReviews:        IntRange(atoi("max_reviews", 10), 1, 100),
		Layout:            Enum(get("layout"), Layouts, "list"),
		Theme:             Enum(get("theme"), Themes, "default"),
		ShowRating:        boolOr("show_rating", true),
		ShowDate:          boolOr("show_date", true),
		ShowAuthorImage:   boolOr("show_author_image", true),
		ShowHelpfulVotes:  boolOr("show_helpful_votes", false),
		ShowOwnerResponse: boolOr("show_owner_response", false),
		ShowBusinessInfo:  boolOr("show_business_info", false),
		SortBy:            Enum(get("sort_by"), SortKeys, "date-new"),
		SortOrder:         Enum(get("sort_order"), SortOrders, "desc"),
		MinRating:         IntRange(atoi("min_rating", 1), 1, 5),
		CacheDuration:     IntRange(atoi("cache_duration", 3600), 60, 86400*7),
		ContainerClass:    CSSClass(get("container_class")),
		Title:             Text(get("title")),
		Page:              IntRange(atoi("page", 1), 1, 10000),
		PerPage:           IntRange(atoi("per_page", 10), 1, 100),
	}
}
