package contentsafety

const (
	GroundednessDomainGeneric = "Generic"
	GroundednessTaskQnA       = "QnA"

	OutputTypeFourSeverityLevels  = "FourSeverityLevels"
	OutputTypeEightSeverityLevels = "EightSeverityLevels"
)

var DefaultCategories = []string{"Hate", "SelfHarm", "Sexual", "Violence"}

type QnA struct {
	Query string `json:"query"`
}

type GroundednessRequest struct {
	Domain           string   `json:"domain"`
	Task             string   `json:"task"`
	QnA              *QnA     `json:"qna,omitempty"`
	Text             string   `json:"text"`
	GroundingSources []string `json:"groundingSources"`
	Reasoning        bool     `json:"reasoning"`
}

type UngroundedDetail struct {
	Text string `json:"text"`
}

type GroundednessResponse struct {
	UngroundedDetected   *bool              `json:"ungroundedDetected"`
	UngroundedPercentage float64            `json:"ungroundedPercentage"`
	UngroundedDetails    []UngroundedDetail `json:"ungroundedDetails,omitempty"`
}

type ShieldPromptRequest struct {
	UserPrompt string   `json:"userPrompt"`
	Documents  []string `json:"documents"`
}

type PromptAnalysis struct {
	AttackDetected bool `json:"attackDetected"`
}

type ShieldPromptResponse struct {
	UserPromptAnalysis *PromptAnalysis  `json:"userPromptAnalysis,omitempty"`
	DocumentsAnalysis  []PromptAnalysis `json:"documentsAnalysis,omitempty"`
}

// AttackDetected reports whether the prompt or any document was flagged.
func (r *ShieldPromptResponse) AttackDetected() bool {
	if r.UserPromptAnalysis != nil && r.UserPromptAnalysis.AttackDetected {
		return true
	}
	for _, d := range r.DocumentsAnalysis {
		if d.AttackDetected {
			return true
		}
	}
	return false
}

type TextRequest struct {
	Text string `json:"text"`
}

type DetectionAnalysis struct {
	Detected bool `json:"detected"`
}

type JailbreakResponse struct {
	JailbreakAnalysis *DetectionAnalysis `json:"jailbreakAnalysis"`
}

type ProtectedMaterialResponse struct {
	ProtectedMaterialAnalysis *DetectionAnalysis `json:"protectedMaterialAnalysis"`
}

type AnalyzeTextRequest struct {
	Text               string   `json:"text"`
	Categories         []string `json:"categories,omitempty"`
	BlocklistNames     []string `json:"blocklistNames,omitempty"`
	HaltOnBlocklistHit bool     `json:"haltOnBlocklistHit,omitempty"`
	OutputType         string   `json:"outputType,omitempty"`
}

type CategoryAnalysis struct {
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

type BlocklistMatch struct {
	BlocklistName     string `json:"blocklistName"`
	BlocklistItemID   string `json:"blocklistItemId"`
	BlocklistItemText string `json:"blocklistItemText"`
}

type AnalyzeTextResponse struct {
	CategoriesAnalysis []CategoryAnalysis `json:"categoriesAnalysis"`
	BlocklistsMatch    []BlocklistMatch   `json:"blocklistsMatch"`
}
