package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soil-network/platform-api/internal/kvstore"
	"github.com/soil-network/platform-api/internal/middleware"
)

func newRouter(opts Options) *Router {
	return New(opts)
}

func do(rt *Router, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func TestParamBinding(t *testing.T) {
	rt := newRouter(Options{})

	var got Params
	rt.Get("/users/:address/ideas", func(w http.ResponseWriter, r *http.Request, params Params) {
		got = params
		w.WriteHeader(http.StatusOK)
	})

	rec := do(rt, http.MethodGet, "/users/addr1xyz/ideas", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(got) != 1 || got["address"] != "addr1xyz" {
		t.Fatalf("params = %v", got)
	}
}

func TestSegmentCountMustMatch(t *testing.T) {
	rt := newRouter(Options{})
	rt.Get("/ideas/:id", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/ideas", "/ideas/a/b", "/ideas/a/b/c"} {
		if rec := do(rt, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("path %s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestLiteralSegmentsCompareExactly(t *testing.T) {
	rt := newRouter(Options{})
	rt.Get("/ideas/:id", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	if rec := do(rt, http.MethodGet, "/Ideas/idea_1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("case-mismatched literal matched: %d", rec.Code)
	}
}

func TestFirstRegisteredWins(t *testing.T) {
	rt := newRouter(Options{})

	rt.Get("/users/verified", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("literal"))
	})
	rt.Get("/users/:address", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("param"))
	})

	rec := do(rt, http.MethodGet, "/users/verified", nil)
	if rec.Body.String() != "literal" {
		t.Fatalf("expected the earlier-registered route, got %q", rec.Body.String())
	}

	// Reversed registration order flips the winner.
	rev := newRouter(Options{})
	rev.Get("/users/:address", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.Write([]byte("param"))
	})
	rev.Get("/users/verified", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.Write([]byte("literal"))
	})
	rec = do(rev, http.MethodGet, "/users/verified", nil)
	if rec.Body.String() != "param" {
		t.Fatalf("expected the earlier-registered param route, got %q", rec.Body.String())
	}
}

func TestMethodMatching(t *testing.T) {
	rt := newRouter(Options{})
	rt.Post("/ideas", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusCreated)
	})
	rt.All("/anything", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	if rec := do(rt, http.MethodGet, "/ideas", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("wrong method should 404, got %d", rec.Code)
	}
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		if rec := do(rt, method, "/anything", nil); rec.Code != http.StatusOK {
			t.Fatalf("wildcard method %s: %d", method, rec.Code)
		}
	}
}

func TestWildcardFallback(t *testing.T) {
	rt := newRouter(Options{})
	rt.All("*", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusTeapot)
	})

	if rec := do(rt, http.MethodGet, "/no/such/path", nil); rec.Code != http.StatusTeapot {
		t.Fatalf("wildcard fallback: %d", rec.Code)
	}
}

func TestNotFoundBody(t *testing.T) {
	rt := newRouter(Options{})

	rec := do(rt, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "Not found" {
		t.Fatalf("body = %v", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestPreflightBypassesRateLimiting(t *testing.T) {
	limiter := middleware.NewRateLimiter(kvstore.NewMemory(), middleware.RateLimiterOptions{Max: 1, Window: time.Minute})
	rt := newRouter(Options{Limiter: limiter})
	rt.Get("/", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	// Preflights never touch the counter.
	for i := 0; i < 5; i++ {
		rec := do(rt, http.MethodOptions, "/", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("preflight %d: %d", i, rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("preflight missing CORS headers")
		}
	}

	// The budget is still intact for a real request.
	if rec := do(rt, http.MethodGet, "/", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after preflights, got %d", rec.Code)
	}
}

func TestRateLimitRejection(t *testing.T) {
	limiter := middleware.NewRateLimiter(kvstore.NewMemory(), middleware.RateLimiterOptions{Max: 2, Window: time.Minute})
	rt := newRouter(Options{Limiter: limiter})
	rt.Get("/", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	header := http.Header{"Cf-Connecting-Ip": []string{"203.0.113.9"}}
	do(rt, http.MethodGet, "/", header)
	do(rt, http.MethodGet, "/", header)

	rec := do(rt, http.MethodGet, "/", header)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatalf("missing reset header")
	}

	// Clients without the trusted header share one "unknown" identity.
	rec = do(rt, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown client pool should have its own counter, got %d", rec.Code)
	}
}

// The counter mutates on every non-preflight request, even ones that end
// in a 404.
func TestNotFoundStillCountsAgainstBudget(t *testing.T) {
	limiter := middleware.NewRateLimiter(kvstore.NewMemory(), middleware.RateLimiterOptions{Max: 2, Window: time.Minute})
	rt := newRouter(Options{Limiter: limiter})

	do(rt, http.MethodGet, "/nope", nil)
	do(rt, http.MethodGet, "/nope", nil)
	rec := do(rt, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 404s consumed the budget, got %d", rec.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	rt := newRouter(Options{})
	rt.Get("/boom", func(w http.ResponseWriter, r *http.Request, _ Params) {
		panic("kaput")
	})

	rec := do(rt, http.MethodGet, "/boom", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["message"]; ok {
		t.Fatalf("raw panic message leaked outside development mode")
	}

	dev := newRouter(Options{Development: true})
	dev.Get("/boom", func(w http.ResponseWriter, r *http.Request, _ Params) {
		panic("kaput")
	})
	rec = do(dev, http.MethodGet, "/boom", nil)
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "kaput" {
		t.Fatalf("development mode should expose the message, body = %v", body)
	}
}

func TestResponsesCarryCORSHeaders(t *testing.T) {
	rt := newRouter(Options{})
	rt.Get("/", func(w http.ResponseWriter, r *http.Request, _ Params) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/", "/missing"} {
		rec := do(rt, http.MethodGet, path, nil)
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("path %s: CORS headers missing", path)
		}
	}
}
