package ratelimit

import (
	"context"
	"testing"
	"time"
)

func waitBriefly(l *HostLimiter, urlStr string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, urlStr)
}

func TestHostLimiter_Burst(t *testing.T) {
	limiter := NewHostLimiter(0.001, 2)

	if err := waitBriefly(limiter, "https://calgarylibrary.ca/a"); err != nil {
		t.Errorf("Expected first page load to pass, got %v", err)
	}
	if err := waitBriefly(limiter, "https://calgarylibrary.ca/b"); err != nil {
		t.Errorf("Expected second page load to pass (burst), got %v", err)
	}
	if err := waitBriefly(limiter, "https://calgarylibrary.ca/c"); err == nil {
		t.Error("Expected third page load to be throttled")
	}

	// Different host has its own bucket
	if err := waitBriefly(limiter, "https://example.com/"); err != nil {
		t.Errorf("Expected page load of another host to pass, got %v", err)
	}
}

func TestHostLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewHostLimiter(0.001, 1)
	if err := limiter.Wait(context.Background(), "https://calgarylibrary.ca/"); err != nil {
		t.Fatalf("Expected first Wait to pass, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx, "https://calgarylibrary.ca/"); err == nil {
		t.Error("Expected Wait to fail on a cancelled context")
	}
}

func TestHostLimiter_NoHost(t *testing.T) {
	limiter := NewHostLimiter(0.001, 1)
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(context.Background(), "about:blank"); err != nil {
			t.Fatalf("Expected hostless URL to pass, got %v", err)
		}
	}
}
