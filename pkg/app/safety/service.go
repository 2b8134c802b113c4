// Package safety wires the fixed check sets run against a question before
// answering and against a generated answer afterwards.
package safety

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/SafetyHub/pkg/checks"
	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/dispatcher"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/completion"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrDuplicateCheck = errors.New("duplicate check name")
)

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=service_mock.go --case=underscore --with-expecter
type Service interface {
	CheckQuestion(ctx context.Context, question string) (*dispatcher.AggregatedResult, error)
	CheckAnswer(ctx context.Context, question, answer, sources string) (*dispatcher.AggregatedResult, error)
}

type service struct {
	dispatcher     dispatcher.Dispatcher
	questionChecks []checks.Check
	answerChecks   []checks.Check
	logger         *logrus.Logger
}

func NewService(
	d dispatcher.Dispatcher,
	questionChecks []checks.Check,
	answerChecks []checks.Check,
	logger *logrus.Logger,
) (Service, error) {
	// Results are keyed by check name, so a repeated name would hide an outcome.
	if err := uniqueNames("question", questionChecks); err != nil {
		return nil, err
	}
	if err := uniqueNames("answer", answerChecks); err != nil {
		return nil, err
	}
	return &service{
		dispatcher:     d,
		questionChecks: questionChecks,
		answerChecks:   answerChecks,
		logger:         logger,
	}, nil
}

func uniqueNames(set string, list []checks.Check) error {
	seen := make(map[checks.Name]struct{}, len(list))
	for _, c := range list {
		if _, ok := seen[c.Name()]; ok {
			return fmt.Errorf("%w: %s in %s checks", ErrDuplicateCheck, c.Name(), set)
		}
		seen[c.Name()] = struct{}{}
	}
	return nil
}

// QuestionChecks screens a user question for attacks and harmful content.
func QuestionChecks(cfg config.ChecksConfig, client contentsafety.Client) []checks.Check {
	return []checks.Check{
		checks.NewPromptShield(client, checks.FieldQuestion),
		checks.NewJailbreak(client),
		checks.NewTextAnalysis(client, checks.FieldQuestion, cfg.Categories, cfg.OutputType),
	}
}

// AnswerChecks validates a generated answer against its sources. Fairness is
// only included when responsible AI checks are enabled and a completion
// client is available.
func AnswerChecks(cfg config.ChecksConfig, client contentsafety.Client, completionClient completion.Client) []checks.Check {
	list := []checks.Check{
		checks.NewGroundedness(client),
		checks.NewProtectedMaterial(client),
		checks.NewTextAnalysis(client, checks.FieldAnswer, cfg.Categories, cfg.OutputType),
		checks.NewPromptShield(client, checks.FieldSources),
	}
	if cfg.ResponsibleAI && completionClient != nil {
		list = append(list, checks.NewFairness(completionClient))
	}
	return list
}

func (s *service) CheckQuestion(ctx context.Context, question string) (*dispatcher.AggregatedResult, error) {
	req := checks.Request{Question: question}
	if err := validate(req, s.questionChecks); err != nil {
		return nil, err
	}
	return s.run(ctx, "question", req, s.questionChecks), nil
}

func (s *service) CheckAnswer(ctx context.Context, question, answer, sources string) (*dispatcher.AggregatedResult, error) {
	req := checks.Request{Question: question, Answer: answer, Sources: sources}
	if err := validate(req, s.answerChecks); err != nil {
		return nil, err
	}
	return s.run(ctx, "answer", req, s.answerChecks), nil
}

func (s *service) run(ctx context.Context, set string, req checks.Request, list []checks.Check) *dispatcher.AggregatedResult {
	result := s.dispatcher.Run(ctx, list, req)
	s.logger.WithFields(logrus.Fields{
		"check_set": set,
		"results":   result.Results,
	}).Info("checks completed")
	return result
}

// validate rejects the request when any field consumed by the set is empty.
func validate(req checks.Request, list []checks.Check) error {
	seen := make(map[checks.Field]struct{})
	for _, c := range list {
		for _, f := range c.Consumes() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			if req.Value(f) == "" {
				return fmt.Errorf("%w: %s", ErrMissingField, f)
			}
		}
	}
	return nil
}
