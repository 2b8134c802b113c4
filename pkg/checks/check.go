// Package checks adapts remote safety services to a single Check contract.
// Every adapter splits its inputs to the service's size limits, fans the
// pieces out concurrently and folds the per-piece answers into one Verdict.
package checks

import (
	"context"
	"errors"
)

type Name string

const (
	Groundedness      Name = "groundedness"
	PromptShield      Name = "promptShield"
	Jailbreak         Name = "jailbreak"
	ProtectedMaterial Name = "protectedMaterial"
	TextAnalysis      Name = "textAnalysis"
	Fairness          Name = "fairness"
)

type Status string

const (
	StatusPassed Status = "Passed"
	StatusFailed Status = "Failed"
	StatusError  Status = "Error"
)

type Field string

const (
	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer"
	FieldSources  Field = "sources"
)

// Size limits accepted by the remote services, in characters.
const (
	GroundednessAnswerLimit   = 6000
	GroundednessSourcesLimit  = 55000
	GroundednessQuestionLimit = 1500
	PromptShieldLimit         = 10000
	JailbreakLimit            = 1000
	ProtectedMaterialLimit    = 1000
	ProtectedMaterialFloor    = 110
	TextAnalysisLimit         = 10000
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrMalformedResponse = errors.New("malformed check response")
)

type Request struct {
	Question string
	Answer   string
	Sources  string
}

func (r Request) Value(f Field) string {
	switch f {
	case FieldQuestion:
		return r.Question
	case FieldAnswer:
		return r.Answer
	case FieldSources:
		return r.Sources
	default:
		return ""
	}
}

// Verdict is the folded outcome of one check. Detail carries the service
// payload the decision was based on and is returned to callers as-is.
type Verdict struct {
	Violation bool
	Detail    any
}

// DetectionDetail is returned by checks whose service answers with a single flag.
type DetectionDetail struct {
	Detected bool   `json:"detected"`
	Reason   string `json:"reason,omitempty"`
	Length   int    `json:"length,omitempty"`
}

type PromptShieldDetail struct {
	AttackDetected bool  `json:"attackDetected"`
	Source         Field `json:"source"`
}

type Check interface {
	Name() Name
	Consumes() []Field
	Run(ctx context.Context, req Request) (Verdict, error)
}
