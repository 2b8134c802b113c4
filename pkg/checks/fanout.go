package checks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/SafetyHub/pkg/chunker"
	"golang.org/x/sync/errgroup"
)

type chunkResult struct {
	verdict Verdict
	err     error
}

// fanOut calls fn once per input, all concurrently, and waits for every call.
// The first violating input in order wins; otherwise the first error; otherwise
// the verdict of the last input. A failing call never cancels its siblings.
func fanOut[T any](ctx context.Context, inputs []T, fn func(context.Context, T) (Verdict, error)) (Verdict, error) {
	results := make([]chunkResult, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			v, err := fn(ctx, in)
			results[i] = chunkResult{verdict: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		last     Verdict
		firstErr error
	)
	for i, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chunk %d: %w", i, r.err)
			}
			continue
		}
		if r.verdict.Violation {
			return r.verdict, nil
		}
		last = r.verdict
	}
	if firstErr != nil {
		return Verdict{}, firstErr
	}
	return last, nil
}

func split(name Name, text string, maxChars, minChars int) ([]string, error) {
	if text == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyInput)
	}
	return chunker.Split(text, maxChars, minChars), nil
}
