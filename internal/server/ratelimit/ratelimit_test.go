package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(5, 1.0)

	for i := 0; i < 5; i++ {
		if !bucket.allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if bucket.allow() {
		t.Error("Expected request to be denied with an empty bucket")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(5, 10.0) // 10 tokens per second

	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	time.Sleep(150 * time.Millisecond)

	if !bucket.allow() {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestLimiter_Allow_DefaultLimit(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/portfolio", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}

	allowed, info := l.Allow("1.2.3.4", "/api/portfolio", "GET")
	if allowed {
		t.Error("Expected request to be denied past the default limit")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected a positive retry-after on denial")
	}
}

func TestLimiter_Allow_SeparateClients(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	l.Allow("1.1.1.1", "/api/portfolio", "GET")
	allowed, _ := l.Allow("2.2.2.2", "/api/portfolio", "GET")
	if !allowed {
		t.Error("Expected a different client to have its own bucket")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/api/generate", "POST")
		if !allowed {
			t.Fatal("Expected all requests allowed when disabled")
		}
	}
}

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	config := MatchEndpoint("/api/health", "GET", DefaultEndpointConfigs())
	if config == nil || config.Limit != 0 {
		t.Error("Expected health check to be unlimited")
	}
}

func TestMatchEndpoint_ExactBeatsPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/portfolio/", Method: "POST", Limit: 100, Window: time.Minute},
		{Path: "/api/generate", Method: "POST", Limit: 20, Window: time.Hour},
	}

	config := MatchEndpoint("/api/generate", "POST", configs)
	if config == nil || config.Limit != 20 {
		t.Fatal("Expected the exact match for /api/generate")
	}

	config = MatchEndpoint("/api/portfolio/abc/duplicate", "POST", configs)
	if config == nil || config.Limit != 100 {
		t.Fatal("Expected the prefix match for /api/portfolio/")
	}
}

func TestMatchEndpoint_NoMatch(t *testing.T) {
	if MatchEndpoint("/api/styles", "GET", DefaultEndpointConfigs()) != nil {
		t.Error("Expected no match for an unconfigured read endpoint")
	}
}
