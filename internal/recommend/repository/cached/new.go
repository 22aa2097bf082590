package cached

import (
	"errors"
	"io"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/pkg/log"
)

// Config tunes the read cache in front of a session store.
type Config struct {
	Size       int
	SessionTTL time.Duration // must match the inner store's TTL
}

// implRepository decorates a SessionRepository with an in-process read
// cache. Appends write through and refresh the cached record; reads hit the
// inner store only on miss. The cache is populated exclusively on appends and
// expires on the same TTL as the store, so a cached record can never outlive
// the session it mirrors. Assumes appends for a session id flow through this
// instance.
type implRepository struct {
	inner repository.SessionRepository
	l     log.Logger
	cache *expirable.LRU[string, model.Session]
}

var _ repository.SessionRepository = (*implRepository)(nil)

// New wraps inner with a read cache. Returns an error on a non-positive
// size, so provisioning can fall back to the plain store.
func New(inner repository.SessionRepository, l log.Logger, cfg Config) (repository.SessionRepository, error) {
	if inner == nil {
		panic("recommend/repository/cached: inner repository is required")
	}
	if cfg.Size <= 0 {
		return nil, errors.New("session read cache size must be positive")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &implRepository{
		inner: inner,
		l:     l,
		cache: expirable.NewLRU[string, model.Session](cfg.Size, nil, cfg.SessionTTL),
	}, nil
}

// Close releases the inner store when it holds external resources.
func (r *implRepository) Close() error {
	if closer, ok := r.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
