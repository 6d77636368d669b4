package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/mindtrack/api/internal/request"
)

const defaultRateLimit = "20-S"

// NewRedisClient creates a Redis client from a URL. Callers own Close.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// RateLimit returns middleware that limits requests per client IP using
// ulule/limiter. With a Redis client the limit is shared across instances;
// with a nil client it falls back to the in-process memory store.
func RateLimit(redisClient *redis.Client, rateFormat string) (func(http.Handler) http.Handler, error) {
	if rateFormat == "" {
		rateFormat = defaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if redisClient != nil {
		store, err = redisstore.NewStore(redisClient)
		if err != nil {
			return nil, err
		}
	} else {
		store = memorystore.NewStore()
	}

	instance := limiter.New(store, rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
