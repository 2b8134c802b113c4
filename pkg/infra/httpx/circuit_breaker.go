package httpx

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Execute(fn func() error) error
}

const DefaultHalfOpenRequests = 5

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

type CircuitBreakerOption func(*gobreaker.Settings)

// WithHalfOpenRequests caps the calls let through while the breaker tests
// recovery. Calls beyond the cap fail with ErrCircuitOpen.
func WithHalfOpenRequests(n uint32) CircuitBreakerOption {
	return func(s *gobreaker.Settings) {
		if n > 0 {
			s.MaxRequests = n
		}
	}
}

// WithFailureClassifier decides which errors count towards tripping. Errors
// for which countsAsFailure is false are still returned to the caller.
func WithFailureClassifier(countsAsFailure func(error) bool) CircuitBreakerOption {
	return func(s *gobreaker.Settings) {
		s.IsSuccessful = func(err error) bool {
			return err == nil || !countsAsFailure(err)
		}
	}
}

func NewCircuitBreaker(
	name string,
	timeout time.Duration,
	maxFailures uint32,
	logger *logrus.Logger,
	opts ...CircuitBreakerOption,
) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: DefaultHalfOpenRequests,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if logger != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		}
	}
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (_ interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic recovered: %v", r)
			}
		}()
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), ErrCircuitOpen)
	}
	return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), err)
}
