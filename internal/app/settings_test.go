package app_test

import (
	"context"
	"encoding/json"
	"testing"

	"gmaps_reviews/internal/app"
)

type fakeSettingsRepo struct {
	store map[string]string
}

func (r *fakeSettingsRepo) GetOption(ctx context.Context, name string) (string, bool, error) {
	v, ok := r.store[name]
	return v, ok, nil
}

func (r *fakeSettingsRepo) SetOption(ctx context.Context, name, value string) error {
	if r.store == nil {
		r.store = map[string]string{}
	}
	r.store[name] = value
	return nil
}

func (r *fakeSettingsRepo) DeleteOption(ctx context.Context, name string) error {
	delete(r.store, name)
	return nil
}

func (r *fakeSettingsRepo) AllOptions(ctx context.Context) (map[string]string, error) {
	return r.store, nil
}

func TestSettings_DefaultsAndOverrides(t *testing.T) {
	svc := app.NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()

	if v, err := svc.Get(ctx, "default_layout"); err != nil || v != "list" {
		t.Fatalf("default: %q, %v", v, err)
	}
	if n, err := svc.GetInt(ctx, "cache_duration"); err != nil || n != 3600 {
		t.Fatalf("default int: %d, %v", n, err)
	}

	if err := svc.Set(ctx, "default_layout", "grid"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := svc.Get(ctx, "default_layout"); v != "grid" {
		t.Fatalf("override: %q", v)
	}

	if _, err := svc.Get(ctx, "no_such_option"); err == nil {
		t.Fatal("unknown key must error")
	}
	if err := svc.Set(ctx, "no_such_option", "x"); err == nil {
		t.Fatal("unknown key must be rejected on write")
	}
}

func TestSettings_SanitizedOnWrite(t *testing.T) {
	svc := app.NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()

	_ = svc.Set(ctx, "max_reviews", "5000")
	if n, _ := svc.GetInt(ctx, "max_reviews"); n != 100 {
		t.Fatalf("clamp: %d", n)
	}
	_ = svc.Set(ctx, "default_layout", "sideways")
	if v, _ := svc.Get(ctx, "default_layout"); v != "list" {
		t.Fatalf("enum fallback: %q", v)
	}
	_ = svc.Set(ctx, "show_date", "YES")
	if b, _ := svc.GetBool(ctx, "show_date"); !b {
		t.Fatal("bool normalize")
	}
}

func TestSettings_BusinessURLs(t *testing.T) {
	svc := app.NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()

	urls, err := svc.BusinessURLs(ctx)
	if err != nil || len(urls) != 0 {
		t.Fatalf("default urls: %v, %v", urls, err)
	}

	err = svc.Set(ctx, "business_urls", `["https://www.google.com/maps/place/A","javascript:x","https://www.google.com/maps/place/B"]`)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	urls, err = svc.BusinessURLs(ctx)
	if err != nil || len(urls) != 2 {
		t.Fatalf("invalid url not dropped: %v, %v", urls, err)
	}
}

func TestSettings_ExportImportRoundtrip(t *testing.T) {
	src := app.NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()
	_ = src.Set(ctx, "default_theme", "modern")
	_ = src.Set(ctx, "min_rating", "3")

	blob, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal(blob, &m); err != nil {
		t.Fatalf("export is not json: %v", err)
	}

	dst := app.NewSettingsService(&fakeSettingsRepo{})
	applied, err := dst.Import(ctx, blob)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if applied == 0 {
		t.Fatal("nothing applied")
	}
	if v, _ := dst.Get(ctx, "default_theme"); v != "modern" {
		t.Fatalf("theme after import: %q", v)
	}
	if n, _ := dst.GetInt(ctx, "min_rating"); n != 3 {
		t.Fatalf("min_rating after import: %d", n)
	}

	if _, err := dst.Import(ctx, []byte("not json")); err == nil {
		t.Fatal("bad import payload must error")
	}
}
