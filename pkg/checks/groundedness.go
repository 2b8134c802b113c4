package checks

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
)

type groundednessInput struct {
	query  string
	text   string
	source string
}

type groundedness struct {
	client contentsafety.Client
}

// NewGroundedness checks that the answer is supported by the sources. Every
// answer chunk is checked against every source chunk for every question chunk.
func NewGroundedness(client contentsafety.Client) Check {
	return &groundedness{client: client}
}

func (g *groundedness) Name() Name { return Groundedness }

func (g *groundedness) Consumes() []Field {
	return []Field{FieldQuestion, FieldAnswer, FieldSources}
}

func (g *groundedness) Run(ctx context.Context, req Request) (Verdict, error) {
	answers, err := split(Groundedness, req.Answer, GroundednessAnswerLimit, 0)
	if err != nil {
		return Verdict{}, err
	}
	sources, err := split(Groundedness, req.Sources, GroundednessSourcesLimit, 0)
	if err != nil {
		return Verdict{}, err
	}
	questions, err := split(Groundedness, req.Question, GroundednessQuestionLimit, 0)
	if err != nil {
		return Verdict{}, err
	}

	inputs := make([]groundednessInput, 0, len(answers)*len(sources)*len(questions))
	for _, s := range sources {
		for _, q := range questions {
			for _, a := range answers {
				inputs = append(inputs, groundednessInput{query: q, text: a, source: s})
			}
		}
	}

	return fanOut(ctx, inputs, func(ctx context.Context, in groundednessInput) (Verdict, error) {
		resp, err := g.client.DetectGroundedness(ctx, contentsafety.GroundednessRequest{
			Domain:           contentsafety.GroundednessDomainGeneric,
			Task:             contentsafety.GroundednessTaskQnA,
			QnA:              &contentsafety.QnA{Query: in.query},
			Text:             in.text,
			GroundingSources: []string{in.source},
			Reasoning:        false,
		})
		if err != nil {
			return Verdict{}, err
		}
		return Verdict{Violation: *resp.UngroundedDetected, Detail: resp}, nil
	})
}
