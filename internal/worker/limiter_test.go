package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://export.arxiv.org/api/query"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://localhost:11434/api/embed"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func allow(l *Limiter, rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.forHost(host).Allow()
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	if !allow(limiter, "http://export.arxiv.org/a") {
		t.Fatal("first request should be allowed")
	}
	if allow(limiter, "http://EXPORT.arxiv.org/b") {
		t.Error("second request to the same host should be throttled")
	}
	if !allow(limiter, "http://other.example.com/") {
		t.Error("a different host has its own budget")
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	_ = allow(limiter, "http://slow.example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "http://slow.example.com"); err == nil {
		t.Error("expected wait to fail once the context expires")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !allow(limiter, "http://example.com") {
			t.Fatalf("request %d throttled with limiting disabled", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.SetHostRate("API.openai.com", 0, 0)

	for i := 0; i < 5; i++ {
		if !allow(limiter, "https://api.openai.com/v1/embeddings") {
			t.Fatalf("request %d throttled on an unlimited host", i)
		}
	}

	_ = allow(limiter, "http://export.arxiv.org/api/query")
	if allow(limiter, "http://export.arxiv.org/api/query") {
		t.Error("other hosts should keep the default rate")
	}
}

func TestLimiter_Transport(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	limiter := NewLimiter(0.001, 1)
	client := &http.Client{Transport: limiter.Transport(nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	_ = resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Do(req); err == nil {
		t.Error("expected the second request to wait past its deadline")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request to reach the server, got %d", got)
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if err := limiter.Wait(context.Background(), "not a url"); err == nil {
		t.Error("expected error for URL without host")
	}
	if allow(limiter, "::") {
		t.Error("expected unparsable URL to be rejected")
	}
}
