package contentsafety

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

// StatusError is returned when the service answers with anything but 200.
// It matches ErrFailedContentSafetyCall under errors.Is.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s status %d: %s", ErrFailedContentSafetyCall, e.Operation, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFailedContentSafetyCall
}

// IsBackendFailure reports whether err says something about the health of the
// service. Rejected requests, undecodable bodies and caller cancellation do not.
func IsBackendFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode == http.StatusRequestTimeout:
			return true
		case statusErr.StatusCode < http.StatusInternalServerError:
			return false
		}
	}
	return true
}

// NewCircuitBreaker builds the breaker shared by every content safety call.
// Only backend failures move it towards open. Zero values take the defaults.
func NewCircuitBreaker(timeout time.Duration, maxFailures, halfOpenRequests uint32, logger *logrus.Logger) httpx.CircuitBreaker {
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	if maxFailures == 0 {
		maxFailures = DefaultBreakerMaxFailures
	}
	if halfOpenRequests == 0 {
		halfOpenRequests = DefaultBreakerHalfOpenRequests
	}
	return httpx.NewCircuitBreaker(
		"content-safety",
		timeout,
		maxFailures,
		logger,
		httpx.WithFailureClassifier(IsBackendFailure),
		httpx.WithHalfOpenRequests(halfOpenRequests),
	)
}
