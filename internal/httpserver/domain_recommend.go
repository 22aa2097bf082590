package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	recommendHTTP "conversational-recommendation/internal/recommend/delivery/http"
	"conversational-recommendation/internal/recommend/repository/catalogapi"
	recommendUC "conversational-recommendation/internal/recommend/usecase"
)

// setupRecommendDomain initializes the recommendation domain and registers
// its routes.
//
// Pattern to follow when adding a new domain:
//  1. Create Repository:   repo := mydomainRepo.New(srv.someClient, srv.l)
//  2. Create UseCase:      uc := mydomainUC.New(srv.l, repo, ...)
//  3. Create HTTP Handler: h := mydomainHTTP.New(srv.l, uc)
//  4. Register Routes:     mydomainHTTP.RegisterRoutes(rg.Group("/myresource"), h, srv.mw)
func (srv *HTTPServer) setupRecommendDomain(ctx context.Context, api *gin.RouterGroup) error {
	// 1. Repository. The session store is injected already provisioned; the
	// candidate pool adapter wraps the catalog client here.
	candidateRepo := catalogapi.New(srv.catalogClient, srv.l, catalogapi.Config{
		FetchTimeout: srv.resolver.PoolTimeout,
		DefaultLimit: srv.resolver.CandidateFetchLimit,
	})

	// 2. UseCase
	uc := recommendUC.New(srv.l, srv.sessionStore, candidateRepo, srv.taxonomy, srv.extractor, recommendUC.Options{
		FetchLimit:         srv.resolver.CandidateFetchLimit,
		DiverseCategoryCap: srv.resolver.DiverseCategoryCap,
	})

	// 3. HTTP Handler
	h := recommendHTTP.New(srv.l, uc)

	// 4. Routes: registers /api/v1/recommendations
	recommendHTTP.RegisterRoutes(api.Group("/recommendations"), h, srv.mw)

	srv.l.Infof(ctx, "Recommendation domain registered")
	return nil
}
