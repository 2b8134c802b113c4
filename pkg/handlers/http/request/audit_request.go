package request

type AuditRequest struct {
	ConversationID string         `json:"conversation_id"`
	Question       string         `json:"question"`
	Answer         string         `json:"answer"`
	Sources        string         `json:"sources"`
	SecurityChecks map[string]any `json:"security_checks"`
}
