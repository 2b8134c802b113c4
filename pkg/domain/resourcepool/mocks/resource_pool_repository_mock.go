package mocks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Get(ctx context.Context, id string) (*resourcepool.ResourcePool, error) {
	args := m.Called(ctx, id)
	pool, _ := args.Get(0).(*resourcepool.ResourcePool)
	return pool, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, pool *resourcepool.ResourcePool) error {
	return m.Called(ctx, pool).Error(0)
}

func (m *Repository) Replace(ctx context.Context, pool *resourcepool.ResourcePool) error {
	return m.Called(ctx, pool).Error(0)
}
