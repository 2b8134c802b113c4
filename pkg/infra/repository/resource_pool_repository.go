package repository

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/cache"
	"gorm.io/gorm"
)

const resourcePoolsTable = "resource_pools"

type resourcePoolStore interface {
	get(ctx context.Context, id string) (*resourcepool.ResourcePool, error)
	create(ctx context.Context, id string, doc *resourcepool.ResourcePool) error
	replace(ctx context.Context, id string, doc *resourcepool.ResourcePool) error
}

type resourcePoolRepository struct {
	store resourcePoolStore
}

func NewRedisResourcePoolRepository(c cache.Client) resourcepool.Repository {
	return &resourcePoolRepository{
		store: &redisDocumentStore[resourcepool.ResourcePool]{
			cache:      c,
			keyPattern: cache.ResourcePoolKeyPattern,
			entityType: resourcepool.EntityType,
		},
	}
}

func NewPostgresResourcePoolRepository(db *gorm.DB) resourcepool.Repository {
	return &resourcePoolRepository{
		store: &postgresDocumentStore[resourcepool.ResourcePool]{
			db:         db,
			table:      resourcePoolsTable,
			entityType: resourcepool.EntityType,
		},
	}
}

func (r *resourcePoolRepository) Get(ctx context.Context, id string) (*resourcepool.ResourcePool, error) {
	return r.store.get(ctx, id)
}

func (r *resourcePoolRepository) Create(ctx context.Context, pool *resourcepool.ResourcePool) error {
	return r.store.create(ctx, pool.ID, pool)
}

func (r *resourcePoolRepository) Replace(ctx context.Context, pool *resourcepool.ResourcePool) error {
	return r.store.replace(ctx, pool.ID, pool)
}
