package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"conversational-recommendation/config"
	"conversational-recommendation/internal/extractor"
	"conversational-recommendation/internal/middleware"
	"conversational-recommendation/internal/recommend/repository"
	"conversational-recommendation/internal/taxonomy"
	"conversational-recommendation/pkg/catalog"
	"conversational-recommendation/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Recommendation domain infrastructure. The session store arrives
	// pre-provisioned (the registry owns fallback selection); the rest is
	// assembled in setupRecommendDomain.
	sessionStore  repository.SessionRepository
	catalogClient *catalog.Client
	taxonomy      taxonomy.Provider
	extractor     *extractor.Extractor
	resolver      config.ResolverConfig
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	SessionStore  repository.SessionRepository
	CatalogClient *catalog.Client
	Taxonomy      taxonomy.Provider
	Extractor     *extractor.Extractor
	Resolver      config.ResolverConfig
	RateLimit     config.RateLimitConfig
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:             logger,
		gin:           gin.New(),
		port:          cfg.Port,
		mode:          cfg.Mode,
		environment:   cfg.Environment,
		mw:            middleware.New(logger, cfg.RateLimit),
		sessionStore:  cfg.SessionStore,
		catalogClient: cfg.CatalogClient,
		taxonomy:      cfg.Taxonomy,
		extractor:     cfg.Extractor,
		resolver:      cfg.Resolver,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.sessionStore == nil {
		return errors.New("session store is required")
	}
	if srv.catalogClient == nil {
		return errors.New("catalog client is required")
	}
	if srv.taxonomy == nil {
		return errors.New("taxonomy provider is required")
	}
	if srv.extractor == nil {
		return errors.New("extractor is required")
	}
	return nil
}
