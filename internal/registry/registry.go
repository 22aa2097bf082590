package registry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	pkgLog "conversational-recommendation/pkg/log"
)

// Builder constructs one long-lived component instance.
type Builder func(ctx context.Context) (any, error)

// Component declares how one entry is provisioned. Enhanced is tried
// first; Baseline covers a missing optional capability; Fallback must
// be cheap and reliable, it is what callers get while the breaker is
// open. At least one of Enhanced/Baseline is required.
type Component struct {
	Enhanced Builder
	Baseline Builder
	Fallback Builder
}

type Config struct {
	FailureThreshold int
	Cooldown         time.Duration
}

type entry struct {
	name      string
	component Component
	breaker   *breaker

	instance atomic.Pointer[any]

	mu           sync.Mutex
	fallbackInst *any
}

// Registry provisions and holds the process-wide singletons. Each entry
// carries its own lock, so building one slow component never blocks
// access to the others.
type Registry struct {
	l   pkgLog.Logger
	cfg Config

	mu      sync.RWMutex
	entries map[string]*entry
}

func New(l pkgLog.Logger, cfg Config) *Registry {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Registry{
		l:       l,
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

// Register declares a component. Call it during wiring, before any Get
// for that name; duplicate names are rejected.
func (r *Registry) Register(name string, c Component) error {
	if c.Enhanced == nil && c.Baseline == nil {
		return fmt.Errorf("registry: component %q has no builder", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("registry: component %q already registered", name)
	}
	r.entries[name] = &entry{
		name:      name,
		component: c,
		breaker:   newBreaker(r.cfg.FailureThreshold, r.cfg.Cooldown),
	}
	return nil
}

// Get returns the singleton for name, building it on first use. The
// fast path is a lock-free read; the slow path re-checks under the
// entry lock, so at most one instance is constructed per name even
// under concurrent first use. A construction failure degrades to the
// fallback instance when one is declared; the error surfaces only when
// nothing can serve.
func (r *Registry) Get(ctx context.Context, name string) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	if inst := e.instance.Load(); inst != nil {
		return *inst, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if inst := e.instance.Load(); inst != nil {
		return *inst, nil
	}

	if !e.breaker.allow() {
		r.l.Debugf(ctx, "registry: %s breaker open, serving fallback", name)
		return r.fallbackLocked(ctx, e)
	}

	inst, err := r.construct(ctx, e)
	if err == nil {
		e.breaker.reset()
		e.instance.Store(&inst)
		r.l.Infof(ctx, "registry: %s provisioned", name)
		return inst, nil
	}

	if opened := e.breaker.recordFailure(); opened {
		r.l.Errorf(ctx, "registry: %s failed %d consecutive builds, breaker open for %s: %v",
			name, r.cfg.FailureThreshold, r.cfg.Cooldown, err)
	}
	if e.component.Fallback == nil {
		return nil, err
	}
	r.l.Warnf(ctx, "registry: %s construction failed, serving fallback: %v", name, err)
	return r.fallbackLocked(ctx, e)
}

// construct runs the enhanced builder and quietly steps down to the
// baseline when the enhanced variant cannot be built.
func (r *Registry) construct(ctx context.Context, e *entry) (any, error) {
	if e.component.Enhanced != nil {
		inst, err := e.component.Enhanced(ctx)
		if err == nil {
			return inst, nil
		}
		if e.component.Baseline == nil {
			return nil, err
		}
		r.l.Warnf(ctx, "registry: %s enhanced variant failed, using baseline: %v", e.name, err)
	}
	return e.component.Baseline(ctx)
}

// fallbackLocked builds and memoizes the fallback instance. Caller
// holds e.mu. The fallback is kept out of e.instance so the real
// builder is retried once the breaker closes again.
func (r *Registry) fallbackLocked(ctx context.Context, e *entry) (any, error) {
	if e.fallbackInst != nil {
		return *e.fallbackInst, nil
	}
	if e.component.Fallback == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFallback, e.name)
	}
	inst, err := e.component.Fallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: %s fallback construction: %w", e.name, err)
	}
	e.fallbackInst = &inst
	return inst, nil
}

// Shutdown closes every built instance that implements io.Closer and
// clears all state, so a later Get provisions from scratch. Used on
// graceful exit and between tests.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, e := range r.entries {
		e.mu.Lock()
		for _, inst := range []*any{e.instance.Load(), e.fallbackInst} {
			if inst == nil {
				continue
			}
			if closer, ok := (*inst).(io.Closer); ok {
				if err := closer.Close(); err != nil && firstErr == nil {
					firstErr = err
				}
			}
		}
		e.instance.Store(nil)
		e.fallbackInst = nil
		e.breaker.reset()
		e.mu.Unlock()
		r.l.Debugf(ctx, "registry: %s shut down", e.name)
	}
	return firstErr
}

// GetAs provisions name and asserts the type callers expect.
func GetAs[T any](ctx context.Context, r *Registry, name string) (T, error) {
	var zero T
	v, err := r.Get(ctx, name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: component %q is %T, not the requested type", name, v)
	}
	return t, nil
}
