package github

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxseedlab/presencedash/internal/github"
	"github.com/foxseedlab/presencedash/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

const breakerName = "github-api"

// newBreaker opens after 60% of at least 10 calls in a minute fail, then
// probes again after a minute. Missing resources and cancelled callers do not
// count as failures.
func newBreaker() *gobreaker.CircuitBreaker[struct{}] {
	metrics.GitHubBreakerState.Set(0)
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, github.ErrNotFound) || isCancellation(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("github circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.GitHubBreakerState.Set(float64(to))
		},
	})
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
