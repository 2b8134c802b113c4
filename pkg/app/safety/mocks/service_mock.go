package mocks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/dispatcher"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) CheckQuestion(ctx context.Context, question string) (*dispatcher.AggregatedResult, error) {
	args := m.Called(ctx, question)
	res, _ := args.Get(0).(*dispatcher.AggregatedResult)
	return res, args.Error(1)
}

func (m *Service) CheckAnswer(ctx context.Context, question, answer, sources string) (*dispatcher.AggregatedResult, error) {
	args := m.Called(ctx, question, answer, sources)
	res, _ := args.Get(0).(*dispatcher.AggregatedResult)
	return res, args.Error(1)
}
