package memory

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/pkg/log"
)

// Config tunes the in-process session store.
type Config struct {
	MaxSessions int
	SessionTTL  time.Duration
}

// implRepository keeps sessions in an expiring LRU. It backs tests and, more
// importantly, keeps the service answering when the durable store is down:
// history degrades to this process's lifetime instead of hard-failing.
type implRepository struct {
	l     log.Logger
	cache *expirable.LRU[string, model.Session]

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

var _ repository.SessionRepository = (*implRepository)(nil)

// New creates the in-process session repository.
func New(l log.Logger, cfg Config) repository.SessionRepository {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 4096
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &implRepository{
		l:     l,
		cache: expirable.NewLRU[string, model.Session](cfg.MaxSessions, nil, cfg.SessionTTL),
		locks: make(map[string]*sessionLock),
	}
}

func (r *implRepository) acquireLock(id string) *sessionLock {
	r.locksMu.Lock()
	sl, ok := r.locks[id]
	if !ok {
		sl = &sessionLock{}
		r.locks[id] = sl
	}
	sl.refs++
	r.locksMu.Unlock()

	sl.mu.Lock()
	return sl
}

func (r *implRepository) releaseLock(id string, sl *sessionLock) {
	sl.mu.Unlock()

	r.locksMu.Lock()
	sl.refs--
	if sl.refs == 0 {
		delete(r.locks, id)
	}
	r.locksMu.Unlock()
}
