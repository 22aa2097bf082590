package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"conversational-recommendation/config"
	"conversational-recommendation/pkg/log"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := New(&mockLogger{}, config.RateLimitConfig{})

	var seen string
	engine := gin.New()
	engine.Use(mw.RequestID())
	engine.GET("/", func(c *gin.Context) {
		seen = log.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates an id when the caller sends none", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		engine.ServeHTTP(rec, req)

		header := rec.Header().Get("X-Request-ID")
		if header == "" {
			t.Fatal("X-Request-ID header not set")
		}
		if seen != header {
			t.Errorf("context id = %q, header = %q, want them equal", seen, header)
		}
	})

	t.Run("honors a caller-supplied id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		engine.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
			t.Errorf("X-Request-ID = %q, want req-42", got)
		}
		if seen != "req-42" {
			t.Errorf("context id = %q, want req-42", seen)
		}
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := New(&mockLogger{}, config.RateLimitConfig{PerMin: 60}) // burst of 6

	engine := gin.New()
	engine.Use(mw.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("throttles a client past its burst", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			if code := hit("10.0.0.1:1234"); code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i+1, code)
			}
		}
		if code := hit("10.0.0.1:1234"); code != http.StatusTooManyRequests {
			t.Errorf("burst-exceeding request status = %d, want 429", code)
		}
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		if code := hit("10.0.0.2:1234"); code != http.StatusOK {
			t.Errorf("fresh client status = %d, want 200", code)
		}
	})
}
