package mocks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*conversation.Conversation)
	return c, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, c *conversation.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *Repository) Replace(ctx context.Context, c *conversation.Conversation) error {
	return m.Called(ctx, c).Error(0)
}
