package redis

import (
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/pkg/log"
)

// Config tunes the Redis-backed session store.
type Config struct {
	KeyPrefix  string
	SessionTTL time.Duration
	OpTimeout  time.Duration
}

type implRepository struct {
	client *goredis.Client
	l      log.Logger
	cfg    Config

	// Per-session append locks. An append is a read-modify-write cycle, so
	// overlapping appends for one id must queue or turn numbers would race.
	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

var _ repository.DurableSessionRepository = (*implRepository)(nil)

// New creates the Redis-backed session repository.
func New(client *goredis.Client, l log.Logger, cfg Config) repository.DurableSessionRepository {
	if client == nil {
		panic("recommend/repository/redis: client is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "recsvc:"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 2 * time.Second
	}
	return &implRepository{
		client: client,
		l:      l,
		cfg:    cfg,
		locks:  make(map[string]*sessionLock),
	}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("recommend/repository/redis.%s", method)
}

// Close releases the underlying Redis connection.
func (r *implRepository) Close() error {
	return r.client.Close()
}

func (r *implRepository) key(id string) string {
	return r.cfg.KeyPrefix + "session:" + id
}

// acquireLock serializes appends for one session id. Entries are reference
// counted so idle ids leave the map without yanking a mutex out from under a
// waiter that already holds the pointer.
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
