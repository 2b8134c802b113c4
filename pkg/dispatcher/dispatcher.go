// Package dispatcher runs a set of checks concurrently and folds their
// outcomes into one AggregatedResult.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/checks"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrCheckPanicked = errors.New("check panicked")

type AggregatedResult struct {
	Results map[checks.Name]checks.Status `json:"results"`
	Details map[checks.Name]any           `json:"details"`
}

// StatusOf returns the status recorded for name, or "" when it was not dispatched.
func (r *AggregatedResult) StatusOf(name checks.Name) checks.Status {
	return r.Results[name]
}

// Statuses flattens the results for storage in an audit log.
func (r *AggregatedResult) Statuses() map[string]string {
	out := make(map[string]string, len(r.Results))
	for name, status := range r.Results {
		out[string(name)] = string(status)
	}
	return out
}

//go:generate mockery --name=Dispatcher --dir=. --output=./mocks --filename=dispatcher_mock.go --case=underscore --with-expecter
type Dispatcher interface {
	Run(ctx context.Context, list []checks.Check, req checks.Request) *AggregatedResult
}

type dispatcher struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) Dispatcher {
	return &dispatcher{logger: logger}
}

type outcome struct {
	name    checks.Name
	verdict checks.Verdict
	err     error
	elapsed time.Duration
}

// Run waits for every check. A check that errors or panics is recorded as
// Error and never affects its siblings; nothing is retried.
func (d *dispatcher) Run(ctx context.Context, list []checks.Check, req checks.Request) *AggregatedResult {
	outcomes := make([]outcome, len(list))

	var g errgroup.Group
	for i, c := range list {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = d.runOne(ctx, c, req)
			return nil
		})
	}
	_ = g.Wait()

	result := &AggregatedResult{
		Results: make(map[checks.Name]checks.Status, len(list)),
		Details: make(map[checks.Name]any, len(list)),
	}
	for _, o := range outcomes {
		status := statusOf(o)
		result.Results[o.name] = status

		switch {
		case o.err != nil:
			result.Details[o.name] = fmt.Sprintf("Error: failed check with exception %v", o.err)
			d.logger.WithError(o.err).WithField("check", o.name).Error("check failed to complete")
		case o.verdict.Detail != nil:
			result.Details[o.name] = o.verdict.Detail
		}

		if prometheus.Config.EnableCheckOutcomes {
			prometheus.CheckOutcomeTotal.WithLabelValues(string(o.name), string(status)).Inc()
		}
		if prometheus.Config.EnableLatency {
			prometheus.CheckLatency.WithLabelValues(string(o.name)).Observe(float64(o.elapsed.Milliseconds()))
		}
	}
	return result
}

func (d *dispatcher) runOne(ctx context.Context, c checks.Check, req checks.Request) (o outcome) {
	o.name = c.Name()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"check": o.name,
				"stack": string(debug.Stack()),
			}).Error("recovered from panic in check")
			o.err = fmt.Errorf("%w: %v", ErrCheckPanicked, r)
		}
		o.elapsed = time.Since(start)
	}()

	o.verdict, o.err = c.Run(ctx, req)
	return o
}

func statusOf(o outcome) checks.Status {
	switch {
	case o.err != nil:
		return checks.StatusError
	case o.verdict.Violation:
		return checks.StatusFailed
	default:
		return checks.StatusPassed
	}
}
