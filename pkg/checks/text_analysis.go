package checks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
	"golang.org/x/sync/errgroup"
)

type textAnalysis struct {
	client     contentsafety.Client
	target     Field
	categories []string
	outputType string
}

// NewTextAnalysis reports harm category severities for the target field. It is
// informational: the verdict is never a violation, callers read the severities
// from the detail.
func NewTextAnalysis(client contentsafety.Client, target Field, categories []string, outputType string) Check {
	if len(categories) == 0 {
		categories = contentsafety.DefaultCategories
	}
	if outputType == "" {
		outputType = contentsafety.OutputTypeFourSeverityLevels
	}
	return &textAnalysis{
		client:     client,
		target:     target,
		categories: categories,
		outputType: outputType,
	}
}

func (t *textAnalysis) Name() Name { return TextAnalysis }

func (t *textAnalysis) Consumes() []Field { return []Field{t.target} }

func (t *textAnalysis) Run(ctx context.Context, req Request) (Verdict, error) {
	chunks, err := split(TextAnalysis, req.Value(t.target), TextAnalysisLimit, 0)
	if err != nil {
		return Verdict{}, err
	}

	responses := make([]*contentsafety.AnalyzeTextResponse, len(chunks))
	errs := make([]error, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			responses[i], errs[i] = t.client.AnalyzeText(ctx, contentsafety.AnalyzeTextRequest{
				Text:       chunk,
				Categories: t.categories,
				OutputType: t.outputType,
			})
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return Verdict{}, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return Verdict{Violation: false, Detail: mergeAnalyses(responses)}, nil
}

// mergeAnalyses keeps the highest severity seen per category, in first-seen order.
func mergeAnalyses(responses []*contentsafety.AnalyzeTextResponse) *contentsafety.AnalyzeTextResponse {
	merged := &contentsafety.AnalyzeTextResponse{
		CategoriesAnalysis: []contentsafety.CategoryAnalysis{},
		BlocklistsMatch:    []contentsafety.BlocklistMatch{},
	}
	index := make(map[string]int)
	seenMatch := make(map[contentsafety.BlocklistMatch]struct{})

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		for _, ca := range resp.CategoriesAnalysis {
			i, ok := index[ca.Category]
			if !ok {
				index[ca.Category] = len(merged.CategoriesAnalysis)
				merged.CategoriesAnalysis = append(merged.CategoriesAnalysis, ca)
				continue
			}
			if ca.Severity > merged.CategoriesAnalysis[i].Severity {
				merged.CategoriesAnalysis[i].Severity = ca.Severity
			}
		}
		for _, m := range resp.BlocklistsMatch {
			if _, ok := seenMatch[m]; ok {
				continue
			}
			seenMatch[m] = struct{}{}
			merged.BlocklistsMatch = append(merged.BlocklistsMatch, m)
		}
	}
	return merged
}
