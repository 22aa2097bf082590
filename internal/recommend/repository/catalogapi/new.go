package catalogapi

import (
	"fmt"
	"time"

	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/pkg/catalog"
	"conversational-recommendation/pkg/log"
)

// Config tunes the candidate pool adapter.
type Config struct {
	FetchTimeout time.Duration
	DefaultLimit int
}

type implRepository struct {
	client *catalog.Client
	l      log.Logger
	cfg    Config
}

var _ repository.CandidateRepository = (*implRepository)(nil)

// New creates the catalog-backed CandidateRepository.
func New(client *catalog.Client, l log.Logger, cfg Config) repository.CandidateRepository {
	if client == nil {
		panic("recommend/repository/catalogapi: client is required")
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 3 * time.Second
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &implRepository{client: client, l: l, cfg: cfg}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("recommend/repository/catalogapi.%s", method)
}
