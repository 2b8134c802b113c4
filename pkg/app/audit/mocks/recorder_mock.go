package mocks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/stretchr/testify/mock"
)

type Recorder struct {
	mock.Mock
}

func (m *Recorder) Record(
	ctx context.Context,
	conversationID, question, answer, sources string,
	checks map[string]any,
) error {
	return m.Called(ctx, conversationID, question, answer, sources, checks).Error(0)
}

func (m *Recorder) Get(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	args := m.Called(ctx, conversationID)
	conv, _ := args.Get(0).(*conversation.Conversation)
	return conv, args.Error(1)
}
