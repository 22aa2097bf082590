package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
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

type closerStub struct {
	closed int32
}

func (c *closerStub) Close() error {
	atomic.AddInt32(&c.closed, 1)
	return nil
}

func TestRegister(t *testing.T) {
	reg := New(&mockLogger{}, Config{})

	t.Run("rejects entries without a builder", func(t *testing.T) {
		if err := reg.Register("empty", Component{}); err == nil {
			t.Error("Register() with no builder should fail")
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		c := Component{Baseline: func(ctx context.Context) (any, error) { return 1, nil }}
		if err := reg.Register("dup", c); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if err := reg.Register("dup", c); err == nil {
			t.Error("second Register() for the same name should fail")
		}
	})
}

func TestGetBuildsOnce(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{})

	var builds int32
	err := reg.Register("store", Component{
		Baseline: func(ctx context.Context) (any, error) {
			atomic.AddInt32(&builds, 1)
			time.Sleep(10 * time.Millisecond) // widen the first-use race window
			return &closerStub{}, nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	const callers = 16
	instances := make([]any, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := reg.Get(ctx, "store")
			if err != nil {
				t.Errorf("Get() error = %v", err)
			}
			instances[i] = inst
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&builds); got != 1 {
		t.Errorf("builder ran %d times, want exactly 1", got)
	}
	for i := 1; i < callers; i++ {
		if instances[i] != instances[0] {
			t.Fatalf("caller %d received a different instance", i)
		}
	}
}

func TestGetEnhancedFallsBackToBaseline(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{})

	baselineBuilds := 0
	reg.Register("store", Component{
		Enhanced: func(ctx context.Context) (any, error) {
			return nil, errors.New("cache capability unavailable")
		},
		Baseline: func(ctx context.Context) (any, error) {
			baselineBuilds++
			return "baseline", nil
		},
	})

	for i := 0; i < 2; i++ {
		inst, err := reg.Get(ctx, "store")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if inst != "baseline" {
			t.Fatalf("Get() = %v, want the baseline variant", inst)
		}
	}
	if baselineBuilds != 1 {
		t.Errorf("baseline built %d times, want 1 (memoized)", baselineBuilds)
	}
}

func TestGetBreaker(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{FailureThreshold: 2, Cooldown: 60 * time.Millisecond})

	var attempts int32
	var healthy atomic.Bool
	reg.Register("store", Component{
		Baseline: func(ctx context.Context) (any, error) {
			atomic.AddInt32(&attempts, 1)
			if healthy.Load() {
				return "real", nil
			}
			return nil, errors.New("dial tcp: connection refused")
		},
		Fallback: func(ctx context.Context) (any, error) { return "fallback", nil },
	})

	mustGet := func(want string, wantAttempts int32) {
		t.Helper()
		inst, err := reg.Get(ctx, "store")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if inst != want {
			t.Fatalf("Get() = %v, want %q", inst, want)
		}
		if got := atomic.LoadInt32(&attempts); got != wantAttempts {
			t.Fatalf("builder attempts = %d, want %d", got, wantAttempts)
		}
	}

	mustGet("fallback", 1) // first failure
	mustGet("fallback", 2) // second failure opens the breaker
	mustGet("fallback", 2) // open: builder not invoked
	mustGet("fallback", 2)

	time.Sleep(80 * time.Millisecond) // let the cooldown elapse
	healthy.Store(true)
	mustGet("real", 3) // retried and memoized
	mustGet("real", 3)
}

func TestGetWithoutFallback(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{})

	buildErr := errors.New("boom")
	reg.Register("store", Component{
		Baseline: func(ctx context.Context) (any, error) { return nil, buildErr },
	})

	if _, err := reg.Get(ctx, "store"); !errors.Is(err, buildErr) {
		t.Errorf("Get() error = %v, want the construction error", err)
	}
}

func TestGetUnknown(t *testing.T) {
	reg := New(&mockLogger{}, Config{})
	if _, err := reg.Get(context.Background(), "nope"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Get() error = %v, want ErrNotRegistered", err)
	}
}

func TestShutdown(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{})

	builds := 0
	inst := &closerStub{}
	reg.Register("store", Component{
		Baseline: func(ctx context.Context) (any, error) {
			builds++
			return inst, nil
		},
	})

	if _, err := reg.Get(ctx, "store"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := reg.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if atomic.LoadInt32(&inst.closed) != 1 {
		t.Errorf("instance closed %d times, want 1", inst.closed)
	}

	// The registry is reusable: the next Get provisions from scratch.
	if _, err := reg.Get(ctx, "store"); err != nil {
		t.Fatalf("Get() after Shutdown error = %v", err)
	}
	if builds != 2 {
		t.Errorf("builder ran %d times, want 2", builds)
	}
}

func TestGetAs(t *testing.T) {
	ctx := context.Background()
	reg := New(&mockLogger{}, Config{})
	reg.Register("greeting", Component{
		Baseline: func(ctx context.Context) (any, error) { return "hello", nil },
	})

	s, err := GetAs[string](ctx, reg, "greeting")
	if err != nil {
		t.Fatalf("GetAs() error = %v", err)
	}
	if s != "hello" {
		t.Errorf("GetAs() = %q", s)
	}

	if _, err := GetAs[int](ctx, reg, "greeting"); err == nil {
		t.Error("GetAs() with the wrong type should fail")
	}
}
