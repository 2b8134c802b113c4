package checks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
)

type jailbreak struct {
	client contentsafety.Client
}

func NewJailbreak(client contentsafety.Client) Check {
	return &jailbreak{client: client}
}

func (j *jailbreak) Name() Name { return Jailbreak }

func (j *jailbreak) Consumes() []Field { return []Field{FieldQuestion} }

func (j *jailbreak) Run(ctx context.Context, req Request) (Verdict, error) {
	chunks, err := split(Jailbreak, req.Question, JailbreakLimit, 0)
	if err != nil {
		return Verdict{}, err
	}
	return fanOut(ctx, chunks, func(ctx context.Context, chunk string) (Verdict, error) {
		resp, err := j.client.DetectJailbreak(ctx, contentsafety.TextRequest{Text: chunk})
		if err != nil {
			return Verdict{}, err
		}
		detected := resp.JailbreakAnalysis.Detected
		return Verdict{Violation: detected, Detail: &DetectionDetail{Detected: detected}}, nil
	})
}
