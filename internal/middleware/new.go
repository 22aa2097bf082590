package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"conversational-recommendation/config"
	"conversational-recommendation/pkg/log"
)

type Middleware struct {
	l        log.Logger
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func New(l log.Logger, cfg config.RateLimitConfig) Middleware {
	perMin := cfg.PerMin
	if perMin <= 0 {
		perMin = 120
	}
	burst := perMin / 10
	if burst < 1 {
		burst = 1
	}
	return Middleware{
		l: l,
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // max distinct clients tracked
			nil,           // no eviction callback
			time.Minute*5, // idle clients age out
		),
		rate:  rate.Limit(float64(perMin) / 60.0),
		burst: burst,
	}
}
