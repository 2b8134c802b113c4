package checks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
)

type promptShield struct {
	client contentsafety.Client
	target Field
}

// NewPromptShield screens the target field for prompt attacks. Questions are
// sent as the user prompt, anything else as a document.
func NewPromptShield(client contentsafety.Client, target Field) Check {
	return &promptShield{client: client, target: target}
}

func (p *promptShield) Name() Name { return PromptShield }

func (p *promptShield) Consumes() []Field { return []Field{p.target} }

func (p *promptShield) Run(ctx context.Context, req Request) (Verdict, error) {
	chunks, err := split(PromptShield, req.Value(p.target), PromptShieldLimit, 0)
	if err != nil {
		return Verdict{}, err
	}
	return fanOut(ctx, chunks, func(ctx context.Context, chunk string) (Verdict, error) {
		body := contentsafety.ShieldPromptRequest{Documents: []string{}}
		if p.target == FieldQuestion {
			body.UserPrompt = chunk
		} else {
			body.Documents = []string{chunk}
		}
		resp, err := p.client.ShieldPrompt(ctx, body)
		if err != nil {
			return Verdict{}, err
		}
		detected := resp.AttackDetected()
		return Verdict{
			Violation: detected,
			Detail:    &PromptShieldDetail{AttackDetected: detected, Source: p.target},
		}, nil
	})
}
