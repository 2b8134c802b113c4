package safety_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/NeuralTrust/SafetyHub/pkg/app/safety"
	"github.com/NeuralTrust/SafetyHub/pkg/checks"
	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/dispatcher"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	parisQuestion = "Is Paris the capital of France?"
	parisAnswer   = "Yes, Paris is the capital of France."
	parisSources  = "Paris is the capital of France."
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func notDetected() *bool {
	b := false
	return &b
}

func severities() *contentsafety.AnalyzeTextResponse {
	return &contentsafety.AnalyzeTextResponse{CategoriesAnalysis: []contentsafety.CategoryAnalysis{
		{Category: "Hate", Severity: 0},
		{Category: "SelfHarm", Severity: 0},
		{Category: "Sexual", Severity: 0},
		{Category: "Violence", Severity: 0},
	}}
}

func TestParisExample(t *testing.T) {
	client := new(mocks.Client)
	client.On("DetectGroundedness", mock.Anything, mock.MatchedBy(func(r contentsafety.GroundednessRequest) bool {
		return r.QnA.Query == parisQuestion && r.Text == parisAnswer && r.GroundingSources[0] == parisSources
	})).Return(&contentsafety.GroundednessResponse{UngroundedDetected: notDetected()}, nil)
	client.On("AnalyzeText", mock.Anything, mock.Anything).Return(severities(), nil)

	list := []checks.Check{
		checks.NewGroundedness(client),
		checks.NewProtectedMaterial(client),
		checks.NewTextAnalysis(client, checks.FieldAnswer, nil, ""),
	}
	res := dispatcher.New(newLogger()).Run(context.Background(), list, checks.Request{
		Question: parisQuestion,
		Answer:   parisAnswer,
		Sources:  parisSources,
	})

	assert.Equal(t, map[checks.Name]checks.Status{
		checks.Groundedness:      checks.StatusPassed,
		checks.ProtectedMaterial: checks.StatusFailed,
		checks.TextAnalysis:      checks.StatusPassed,
	}, res.Results)

	analysis, ok := res.Details[checks.TextAnalysis].(*contentsafety.AnalyzeTextResponse)
	require.True(t, ok)
	assert.Len(t, analysis.CategoriesAnalysis, 4)

	floor, ok := res.Details[checks.ProtectedMaterial].(*checks.DetectionDetail)
	require.True(t, ok)
	assert.Equal(t, len(parisAnswer), floor.Length)
	assert.Contains(t, floor.Reason, "110")

	client.AssertNotCalled(t, "DetectProtectedMaterial", mock.Anything, mock.Anything)
}

func TestCheckQuestion(t *testing.T) {
	client := new(mocks.Client)
	client.On("ShieldPrompt", mock.Anything, contentsafety.ShieldPromptRequest{UserPrompt: parisQuestion, Documents: []string{}}).
		Return(&contentsafety.ShieldPromptResponse{UserPromptAnalysis: &contentsafety.PromptAnalysis{}}, nil)
	client.On("DetectJailbreak", mock.Anything, mock.Anything).
		Return(nil, contentsafety.ErrFailedContentSafetyCall)
	client.On("AnalyzeText", mock.Anything, mock.Anything).Return(severities(), nil)

	svc, err := safety.NewService(
		dispatcher.New(newLogger()),
		safety.QuestionChecks(config.ChecksConfig{}, client),
		nil,
		newLogger(),
	)
	require.NoError(t, err)

	res, err := svc.CheckQuestion(context.Background(), parisQuestion)

	require.NoError(t, err)
	assert.Equal(t, map[checks.Name]checks.Status{
		checks.PromptShield: checks.StatusPassed,
		checks.Jailbreak:    checks.StatusError,
		checks.TextAnalysis: checks.StatusPassed,
	}, res.Results)
}

func TestCheckAnswer_Validation(t *testing.T) {
	client := new(mocks.Client)
	svc, err := safety.NewService(
		dispatcher.New(newLogger()),
		nil,
		safety.AnswerChecks(config.ChecksConfig{}, client, nil),
		newLogger(),
	)
	require.NoError(t, err)

	_, err = svc.CheckAnswer(context.Background(), parisQuestion, parisAnswer, "")

	assert.True(t, errors.Is(err, safety.ErrMissingField))
	assert.ErrorContains(t, err, "sources")
	assert.Empty(t, client.Calls)
}

func TestCheckQuestion_Validation(t *testing.T) {
	svc, err := safety.NewService(dispatcher.New(newLogger()), safety.QuestionChecks(config.ChecksConfig{}, new(mocks.Client)), nil, newLogger())
	require.NoError(t, err)

	_, err = svc.CheckQuestion(context.Background(), "")

	assert.ErrorIs(t, err, safety.ErrMissingField)
}

type stubCompletion struct{}

func (stubCompletion) Complete(context.Context, string, string) (string, error) {
	return `{"fair": true}`, nil
}

func TestAnswerChecks(t *testing.T) {
	client := new(mocks.Client)

	names := func(list []checks.Check) []checks.Name {
		out := make([]checks.Name, 0, len(list))
		for _, c := range list {
			out = append(out, c.Name())
		}
		return out
	}

	base := []checks.Name{checks.Groundedness, checks.ProtectedMaterial, checks.TextAnalysis, checks.PromptShield}
	assert.Equal(t, base, names(safety.AnswerChecks(config.ChecksConfig{}, client, stubCompletion{})))
	assert.Equal(t, append(base, checks.Fairness), names(safety.AnswerChecks(config.ChecksConfig{ResponsibleAI: true}, client, stubCompletion{})))
	assert.Equal(t, base, names(safety.AnswerChecks(config.ChecksConfig{ResponsibleAI: true}, client, nil)))
}

func TestNewService_RejectsDuplicateNames(t *testing.T) {
	client := new(mocks.Client)

	_, err := safety.NewService(
		dispatcher.New(newLogger()),
		[]checks.Check{checks.NewJailbreak(client), checks.NewJailbreak(client)},
		nil,
		newLogger(),
	)
	assert.ErrorIs(t, err, safety.ErrDuplicateCheck)

	_, err = safety.NewService(
		dispatcher.New(newLogger()),
		nil,
		[]checks.Check{
			checks.NewPromptShield(client, checks.FieldAnswer),
			checks.NewPromptShield(client, checks.FieldSources),
		},
		newLogger(),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, safety.ErrDuplicateCheck)
	assert.Contains(t, err.Error(), "promptShield in answer checks")

	_, err = safety.NewService(
		dispatcher.New(newLogger()),
		safety.QuestionChecks(config.ChecksConfig{}, client),
		safety.AnswerChecks(config.ChecksConfig{ResponsibleAI: true}, client, stubCompletion{}),
		newLogger(),
	)
	assert.NoError(t, err)
}
