package request

type CheckQuestionRequest struct {
	Question string `json:"question"`
}

type CheckAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Sources  string `json:"sources"`
}
