package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestMiddlewareLimitsPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(ctx, rate.Every(time.Hour), 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/frontend-api/session", nil)
		r.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		return rr.Code
	}

	for n := 0; n < 2; n++ {
		if code := call("198.51.100.7:4000"); code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", n+1, code)
		}
	}
	if code := call("198.51.100.7:4001"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", code)
	}
	if code := call("198.51.100.8:4000"); code != http.StatusNoContent {
		t.Errorf("other IP: status = %d, want 204", code)
	}
}

func TestSweepRemovesFullBuckets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(ctx, rate.Every(time.Hour), 1)
	l.GetLimiter("a").Allow() // drained, must survive
	l.GetLimiter("b")         // untouched, full bucket

	removed, remaining := l.sweep(time.Now())
	if removed != 1 || remaining != 1 {
		t.Errorf("sweep() = (%d, %d), want (1, 1)", removed, remaining)
	}
	if _, ok := l.limits["a"]; !ok {
		t.Error("drained bucket was swept")
	}
}
