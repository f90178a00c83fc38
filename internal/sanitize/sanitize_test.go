package sanitize_test

import (
	"strings"
	"testing"

	"gmaps_reviews/internal/domain"
	"gmaps_reviews/internal/sanitize"
)

func TestIntRange(t *testing.T) {
	if got := sanitize.IntRange(150, 1, 50); got != 50 {
		t.Fatalf("IntRange(150,1,50) = %d, want 50", got)
	}
	if got := sanitize.IntRange(-5, 1, 50); got != 1 {
		t.Fatalf("IntRange(-5,1,50) = %d, want 1", got)
	}
	if got := sanitize.IntRange(25, 1, 50); got != 25 {
		t.Fatalf("IntRange(25,1,50) = %d, want 25", got)
	}
}

func TestBool(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on", "enabled", "TRUE", "Yes", " on "} {
		if !sanitize.Bool(s) {
			t.Errorf("Bool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "false", "0", "no", "off", "2", "truthy"} {
		if sanitize.Bool(s) {
			t.Errorf("Bool(%q) = true, want false", s)
		}
	}
}

func TestEnum(t *testing.T) {
	if got := sanitize.Enum("Cards", sanitize.Layouts, "list"); got != "cards" {
		t.Fatalf("got %q", got)
	}
	if got := sanitize.Enum("table", sanitize.Layouts, "list"); got != "list" {
		t.Fatalf("got %q", got)
	}
}

func TestURL(t *testing.T) {
	if got := sanitize.URL("https://www.google.com/maps/place/Test+Cafe"); got == "" {
		t.Fatal("valid URL rejected")
	}
	for _, s := range []string{"javascript:alert(1)", "not a url", "ftp://x.com/a", "/relative"} {
		if got := sanitize.URL(s); got != "" {
			t.Errorf("URL(%q) = %q, want empty", s, got)
		}
	}
}

func TestHTMLAllowList(t *testing.T) {
	in := `<p>ok</p><script>alert(1)</script><span class="x" onclick="y">hi</span><a href="z">link</a>`
	out := sanitize.HTML(in)
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") || strings.Contains(out, "<a") {
		t.Fatalf("disallowed markup survived: %q", out)
	}
	if !strings.Contains(out, "<p>ok</p>") || !strings.Contains(out, `<span class="x">hi</span>`) {
		t.Fatalf("allowed markup stripped: %q", out)
	}
}

func TestCSSClass(t *testing.T) {
	if got := sanitize.CSSClass(`my-class "><script>`); got != "my-class script" {
		t.Fatalf("got %q", got)
	}
}

func TestParseOptions_DefaultsAndAliases(t *testing.T) {
	opts := sanitize.ParseOptions(map[string]string{
		"url":       "https://www.google.com/maps/place/Test+Cafe",
		"max":       "500",
		"layout":    "carousel",
		"sort_by":   "bogus",
		"show_date": "no",
	})
	if opts.BusinessURL == "" {
		t.Fatal("url alias not honored")
	}
	if opts.MaxReviews != 100 {
		t.Fatalf("max alias/clamp: got %d", opts.MaxReviews)
	}
	if opts.Layout != "carousel" {
		t.Fatalf("layout: got %q", opts.Layout)
	}
	if opts.SortBy != "date-new" {
		t.Fatalf("sort_by fallback: got %q", opts.SortBy)
	}
	if opts.ShowDate {
		t.Fatal("show_date should be false")
	}
	if !opts.ShowRating || opts.MinRating != 1 || opts.Theme != "default" {
		t.Fatalf("defaults wrong: %+v", opts)
	}
}

func TestReviewClean(t *testing.T) {
	r := sanitize.Review(domain.Review{
		AuthorName:   "<b>Ana</b>",
		AuthorImage:  "javascript:x",
		Rating:       9,
		Content:      `good <script>x</script> place`,
		HelpfulVotes: -3,
	})
	if r.AuthorName != "Ana" {
		t.Fatalf("author: %q", r.AuthorName)
	}
	if r.AuthorImage != "" {
		t.Fatalf("image: %q", r.AuthorImage)
	}
	if r.Rating != 5 || r.HelpfulVotes != 0 {
		t.Fatalf("numeric clean: %+v", r)
	}
	if strings.Contains(r.Content, "script") {
		t.Fatalf("content: %q", r.Content)
	}
	if r.Language != "en" {
		t.Fatalf("language default: %q", r.Language)
	}
}
