package webdriver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gmaps_reviews/internal/adapters/webdriver"
	"gmaps_reviews/internal/domain"
)

// fakeDriver mimics the minimal WebDriver wire surface the client touches.
func fakeDriver(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"value": v})
	}
	mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		write(w, map[string]string{"sessionId": "s-1"})
	})
	mux.HandleFunc("POST /session/s-1/url", func(w http.ResponseWriter, r *http.Request) {
		write(w, nil)
	})
	mux.HandleFunc("POST /session/s-1/elements", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Value string `json:"value"` }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Value == ".missing" {
			write(w, []any{})
			return
		}
		write(w, []map[string]string{
			{"element-6066-11e4-a52e-4f735466cecf": "el-1"},
			{"element-6066-11e4-a52e-4f735466cecf": "el-2"},
		})
	})
	mux.HandleFunc("POST /session/s-1/element/el-1/click", func(w http.ResponseWriter, r *http.Request) {
		write(w, nil)
	})
	mux.HandleFunc("GET /session/s-1/source", func(w http.ResponseWriter, r *http.Request) {
		write(w, "<html><body>hi</body></html>")
	})
	mux.HandleFunc("DELETE /session/s-1", func(w http.ResponseWriter, r *http.Request) {
		write(w, nil)
	})
	return httptest.NewServer(mux)
}

func TestSessionLifecycle(t *testing.T) {
	ts := fakeDriver(t)
	defer ts.Close()

	cl := webdriver.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := cl.NewSession(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer b.Close(ctx)

	if err := b.Navigate(ctx, "https://example.com"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	els, err := b.FindElements(ctx, ".review")
	if err != nil || len(els) != 2 {
		t.Fatalf("elements: %v %v", els, err)
	}
	if err := b.Click(ctx, els[0]); err != nil {
		t.Fatalf("click: %v", err)
	}
	src, err := b.PageSource(ctx)
	if err != nil || src == "" {
		t.Fatalf("source: %q %v", src, err)
	}

	if els, _ = b.FindElements(ctx, ".missing"); len(els) != 0 {
		t.Fatalf("expected empty match, got %v", els)
	}
}

func TestNewSession_DriverRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value": map[string]string{"error": "session not created", "message": "chrome failed to start"},
		})
	}))
	defer ts.Close()

	cl := webdriver.New(ts.URL, 100)
	_, err := cl.NewSession(context.Background())
	if !errors.Is(err, domain.ErrBrowserInit) {
		t.Fatalf("want ErrBrowserInit, got %v", err)
	}
}

func TestNewSession_EndpointDown(t *testing.T) {
	ts := httptest.NewServer(nil)
	addr := ts.URL
	ts.Close() // nothing listening anymore

	cl := webdriver.New(addr, 100)
	_, err := cl.NewSession(context.Background())
	if !errors.Is(err, domain.ErrBrowserUnavailable) {
		t.Fatalf("want ErrBrowserUnavailable, got %v", err)
	}
}
