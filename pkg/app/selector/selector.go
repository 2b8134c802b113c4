package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

var ErrNoResources = errors.New("no resources configured")

//go:generate mockery --name=Selector --dir=. --output=./mocks --filename=selector_mock.go --case=underscore --with-expecter
type Selector interface {
	Select(ctx context.Context, model string, configured []string) (string, error)
}

type selector struct {
	cfg    config.LoadBalancingConfig
	repo   resourcepool.Repository
	logger *logrus.Logger
}

func NewSelector(cfg config.LoadBalancingConfig, repo resourcepool.Repository, logger *logrus.Logger) Selector {
	return &selector{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
}

// Select hands out the head of the model's persisted rotation and moves it
// to the tail. The read-modify-write is not isolated: two concurrent callers
// can both receive the same head, and the last write wins.
func (s *selector) Select(ctx context.Context, model string, configured []string) (string, error) {
	if len(configured) == 0 {
		return "", fmt.Errorf("%w for model %s", ErrNoResources, model)
	}
	if !s.cfg.Enabled || model == s.cfg.EmbeddingModel || len(configured) == 1 {
		return configured[0], nil
	}

	pool, err := s.loadOrCreate(ctx, model, configured)
	if err != nil {
		return "", err
	}

	if !pool.SameSet(configured) {
		s.logger.WithFields(logrus.Fields{
			"model":      model,
			"stored":     pool.Resources,
			"configured": configured,
		}).Info("resource pool out of sync with configuration, resetting rotation")
		pool.Reset(configured)
	}

	resource, err := pool.Rotate()
	if err != nil {
		return "", err
	}
	if err := s.repo.Replace(ctx, pool); err != nil {
		return "", fmt.Errorf("failed to persist resource pool: %w", err)
	}

	prometheus.ResourceSelectionTotal.WithLabelValues(model, resource).Inc()
	return resource, nil
}

func (s *selector) loadOrCreate(ctx context.Context, model string, configured []string) (*resourcepool.ResourcePool, error) {
	pool, err := s.repo.Get(ctx, model)
	if err == nil {
		return pool, nil
	}
	if !domain.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resource pool: %w", err)
	}

	pool = resourcepool.New(model, configured)
	if err := s.repo.Create(ctx, pool); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create resource pool: %w", err)
		}
		// another instance created it first
		if pool, err = s.repo.Get(ctx, model); err != nil {
			return nil, fmt.Errorf("failed to load resource pool: %w", err)
		}
	}
	return pool, nil
}
