package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Store             limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "rate_limit",
	})
}

// IPRateLimitPeriod limits a single route group per client IP, backed by an
// in-memory store local to that group.
func IPRateLimitPeriod(limit int64, period time.Duration) mux.MiddlewareFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})
	mw := mhttp.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return mw.Handler(next)
	}
}

// RateLimit applies a global requests-per-second limit across all routes.
func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(config.RequestsPerPeriod),
	}
	instance := limiter.New(config.Store, rate)
	mw := mhttp.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return mw.Handler(next)
	}
}
