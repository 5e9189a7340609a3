package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/irarb/internal/domain/dto"
)

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		want    int
	}{
		{name: "default 500", handler: func(c *gin.Context) { _ = c.Error(assertErr{}) }, want: 500},
		{name: "keeps status", handler: func(c *gin.Context) { c.Status(http.StatusBadGateway); _ = c.Error(assertErr{}) }, want: 502},
		{name: "no errors", handler: func(c *gin.Context) { c.String(200, "ok") }, want: 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(ErrorHandler)
			r.GET("/", tc.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.want {
				t.Fatalf("code=%d want %d", w.Code, tc.want)
			}
			if tc.want >= 400 {
				var out dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.ErrorDetails != "boom" {
					t.Fatalf("details: %q", out.ErrorDetails)
				}
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
	var out dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Message == "" {
		t.Fatalf("unexpected body %q (%v)", w.Body.String(), err)
	}
}

func TestRateLimiter(t *testing.T) {
	cases := []struct {
		name   string
		reqs   int
		burst  int
		expect int
	}{
		{name: "within burst", reqs: 2, burst: 3, expect: http.StatusOK},
		{name: "exceed burst", reqs: 5, burst: 3, expect: http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			// one token per minute: only the burst is available during the test
			r.Use(RateLimiter(1, tc.burst))
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			var last *httptest.ResponseRecorder
			for i := 0; i < tc.reqs; i++ {
				last = httptest.NewRecorder()
				r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
			}
			if last.Code != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, last.Code)
			}
			if tc.expect == http.StatusTooManyRequests && last.Header().Get("Retry-After") == "" {
				t.Fatalf("expected Retry-After header")
			}
		})
	}
}

func TestLimiterStore_PerIPAndSweep(t *testing.T) {
	s := newLimiterStore(1, 1)
	now := time.Now()

	if !s.allow("10.0.0.1", now) {
		t.Fatalf("first request must pass")
	}
	if s.allow("10.0.0.1", now) {
		t.Fatalf("second request from same ip must be limited")
	}
	if !s.allow("10.0.0.2", now) {
		t.Fatalf("other ip has its own bucket")
	}

	later := now.Add(2 * limiterIdleTTL)
	s.allow("10.0.0.3", later)
	if _, ok := s.visitors["10.0.0.1"]; ok {
		t.Fatalf("idle visitor should be swept")
	}
	if len(s.visitors) != 1 {
		t.Fatalf("want 1 visitor after sweep, got %d", len(s.visitors))
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}
