package mocks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) DetectGroundedness(ctx context.Context, req contentsafety.GroundednessRequest) (*contentsafety.GroundednessResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*contentsafety.GroundednessResponse)
	return resp, args.Error(1)
}

func (m *Client) ShieldPrompt(ctx context.Context, req contentsafety.ShieldPromptRequest) (*contentsafety.ShieldPromptResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*contentsafety.ShieldPromptResponse)
	return resp, args.Error(1)
}

func (m *Client) DetectJailbreak(ctx context.Context, req contentsafety.TextRequest) (*contentsafety.JailbreakResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*contentsafety.JailbreakResponse)
	return resp, args.Error(1)
}

func (m *Client) DetectProtectedMaterial(ctx context.Context, req contentsafety.TextRequest) (*contentsafety.ProtectedMaterialResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*contentsafety.ProtectedMaterialResponse)
	return resp, args.Error(1)
}

func (m *Client) AnalyzeText(ctx context.Context, req contentsafety.AnalyzeTextRequest) (*contentsafety.AnalyzeTextResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*contentsafety.AnalyzeTextResponse)
	return resp, args.Error(1)
}
