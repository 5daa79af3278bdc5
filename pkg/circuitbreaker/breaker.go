// Package circuitbreaker builds the named gobreaker.CircuitBreaker every
// internal/httpclient.Client wraps its calls in, so a repeatedly
// unreachable activity server, analyzer, or chat endpoint stops being
// hammered once it has clearly gone bad.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes how quickly a breaker trips and how long it stays open
// before probing the upstream again.
type Config struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultConfig is the setting every internal/httpclient.Client starts
// from unless overridden with WithBreakerConfig.
func DefaultConfig() Config {
	return Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
	}
}

// New builds a breaker named for logging purposes. It trips once at
// least 3 requests have been seen in the current interval and 60% or
// more of them failed, then stays open for cfg.Timeout before allowing
// up to cfg.MaxRequests probe requests through.
func New(name string, cfg Config) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}
