package resourcepool

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=resource_pool_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Get(ctx context.Context, id string) (*ResourcePool, error)
	Create(ctx context.Context, pool *ResourcePool) error
	Replace(ctx context.Context, pool *ResourcePool) error
}
