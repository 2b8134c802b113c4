package contentsafety

import (
	"context"
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	DetectGroundedness(ctx context.Context, req GroundednessRequest) (*GroundednessResponse, error)
	ShieldPrompt(ctx context.Context, req ShieldPromptRequest) (*ShieldPromptResponse, error)
	DetectJailbreak(ctx context.Context, req TextRequest) (*JailbreakResponse, error)
	DetectProtectedMaterial(ctx context.Context, req TextRequest) (*ProtectedMaterialResponse, error)
	AnalyzeText(ctx context.Context, req AnalyzeTextRequest) (*AnalyzeTextResponse, error)
}
