// Package webdriver speaks the W3C WebDriver wire protocol to an external
// chromedriver endpoint. It is transport plumbing only: page heuristics live
// in the gmaps adapter, browser control lives in the driver.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"gmaps_reviews/internal/domain"
)

const elementKey = "element-6066-11e4-a52e-4f735466cecf"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 60 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// NewSession starts a headless Chrome session. Connectivity failures map to
// ErrBrowserUnavailable, driver-side rejections to ErrBrowserInit.
func (c *Client) NewSession(ctx context.Context) (domain.Browser, error) {
	payload := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{
				"goog:chromeOptions": map[string]any{
					"args": []string{"--headless=new", "--disable-gpu", "--lang=en-US"},
				},
			},
		},
	}
	var out struct {
		Value struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodPost, "/session", payload, &out); err != nil {
		var we *wireError
		if errors.As(err, &we) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBrowserInit, we.message)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrBrowserUnavailable, err)
	}
	if out.Value.SessionID == "" {
		return nil, domain.ErrBrowserInit
	}
	return &Session{c: c, id: out.Value.SessionID}, nil
}

// Ping reports whether the driver endpoint answers /status.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Value struct {
			Ready bool `json:"ready"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBrowserUnavailable, err)
	}
	return nil
}

type Session struct {
	c  *Client
	id string
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.c.do(ctx, http.MethodPost, "/session/"+s.id+"/url", map[string]string{"url": url}, nil)
}

func (s *Session) FindElements(ctx context.Context, cssSelector string) ([]domain.Element, error) {
	payload := map[string]string{"using": "css selector", "value": cssSelector}
	var out struct {
		Value []map[string]string `json:"value"`
	}
	if err := s.c.do(ctx, http.MethodPost, "/session/"+s.id+"/elements", payload, &out); err != nil {
		return nil, err
	}
	els := make([]domain.Element, 0, len(out.Value))
	for _, m := range out.Value {
		if id := m[elementKey]; id != "" {
			els = append(els, domain.Element{ID: id})
		}
	}
	return els, nil
}

func (s *Session) Click(ctx context.Context, el domain.Element) error {
	return s.c.do(ctx, http.MethodPost, "/session/"+s.id+"/element/"+el.ID+"/click", map[string]any{}, nil)
}

func (s *Session) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	payload := map[string]any{"script": script, "args": args}
	var out struct {
		Value any `json:"value"`
	}
	if err := s.c.do(ctx, http.MethodPost, "/session/"+s.id+"/execute/sync", payload, &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

func (s *Session) PageSource(ctx context.Context) (string, error) {
	var out struct {
		Value string `json:"value"`
	}
	if err := s.c.do(ctx, http.MethodGet, "/session/"+s.id+"/source", nil, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (s *Session) Close(ctx context.Context) error {
	return s.c.do(ctx, http.MethodDelete, "/session/"+s.id, nil, nil)
}

// wireError is a driver-level rejection (non-2xx with a WebDriver error body).
type wireError struct {
	status  int
	kind    string
	message string
}

func (e *wireError) Error() string {
	return fmt.Sprintf("webdriver: %s (%d): %s", e.kind, e.status, e.message)
}

// do performs one wire call. A scrape is attempted exactly once per
// invocation: there is no retry loop at this layer.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Value struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			} `json:"value"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &failure)
		return &wireError{status: resp.StatusCode, kind: failure.Value.Error, message: failure.Value.Message}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
