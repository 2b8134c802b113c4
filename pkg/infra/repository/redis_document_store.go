package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/cache"
	"github.com/go-redis/redis/v8"
)

// redisDocumentStore keeps one JSON document per key. Documents never expire.
type redisDocumentStore[T any] struct {
	cache      cache.Client
	keyPattern string
	entityType string
}

func (s *redisDocumentStore[T]) get(ctx context.Context, id string) (*T, error) {
	raw, err := s.cache.Get(ctx, fmt.Sprintf(s.keyPattern, id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError(s.entityType, id)
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.entityType, err)
	}
	var doc T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", s.entityType, err)
	}
	return &doc, nil
}

func (s *redisDocumentStore[T]) create(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.entityType, err)
	}
	ok, err := s.cache.SetNX(ctx, fmt.Sprintf(s.keyPattern, id), string(data), 0)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.entityType, err)
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", s.entityType, id, domain.ErrAlreadyExists)
	}
	return nil
}

func (s *redisDocumentStore[T]) replace(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.entityType, err)
	}
	ok, err := s.cache.SetXX(ctx, fmt.Sprintf(s.keyPattern, id), string(data), 0)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.entityType, err)
	}
	if !ok {
		return domain.NewNotFoundError(s.entityType, id)
	}
	return nil
}
