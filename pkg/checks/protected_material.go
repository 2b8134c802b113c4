package checks

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/NeuralTrust/SafetyHub/pkg/chunker"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
)

type protectedMaterial struct {
	client contentsafety.Client
}

// NewProtectedMaterial flags answers containing known protected text. The
// service cannot judge inputs shorter than ProtectedMaterialFloor, so those are
// reported as failing without a remote call.
func NewProtectedMaterial(client contentsafety.Client) Check {
	return &protectedMaterial{client: client}
}

func (p *protectedMaterial) Name() Name { return ProtectedMaterial }

func (p *protectedMaterial) Consumes() []Field { return []Field{FieldAnswer} }

func (p *protectedMaterial) Run(ctx context.Context, req Request) (Verdict, error) {
	if n := utf8.RuneCountInString(req.Answer); n < ProtectedMaterialFloor {
		return Verdict{
			Violation: true,
			Detail: &DetectionDetail{
				Detected: false,
				Reason:   fmt.Sprintf("text shorter than %d characters cannot be evaluated", ProtectedMaterialFloor),
				Length:   n,
			},
		}, nil
	}

	chunks := chunker.Split(req.Answer, ProtectedMaterialLimit, ProtectedMaterialFloor)
	return fanOut(ctx, chunks, func(ctx context.Context, chunk string) (Verdict, error) {
		resp, err := p.client.DetectProtectedMaterial(ctx, contentsafety.TextRequest{Text: chunk})
		if err != nil {
			return Verdict{}, err
		}
		detected := resp.ProtectedMaterialAnalysis.Detected
		return Verdict{Violation: detected, Detail: &DetectionDetail{Detected: detected}}, nil
	})
}
