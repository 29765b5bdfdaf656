package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// NewPerMinuteLimiter returns a token bucket allowing perMinute events per minute with a burst of the same
// size. A non-positive perMinute yields nil, meaning no limit.
func NewPerMinuteLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}
