package conversation

import (
	"time"
)

const (
	EntityType = "conversation"
	TimeLayout = "2006-01-02 15:04:05"
)

// Conversation is the audit log of one user conversation. The whole document
// is rewritten on every append.
type Conversation struct {
	ID   string `json:"id"`
	Data *Data  `json:"conversation_data,omitempty"`
}

type Data struct {
	StartDate    string        `json:"start_date"`
	Interactions []Interaction `json:"interactions"`
}

// Interaction is one audited exchange. SecurityChecks is stored as the
// caller sent it.
type Interaction struct {
	Time           string         `json:"time"`
	Question       string         `json:"question"`
	Answer         string         `json:"answer"`
	Sources        string         `json:"sources"`
	SecurityChecks map[string]any `json:"security_checks"`
}

func New(id string) *Conversation {
	return &Conversation{ID: id}
}

// Append adds an interaction stamped with now. The start date is set by the
// first append and never changes afterwards.
func (c *Conversation) Append(now time.Time, i Interaction) Interaction {
	stamp := now.UTC().Format(TimeLayout)
	if c.Data == nil {
		c.Data = &Data{StartDate: stamp}
	}
	i.Time = stamp
	c.Data.Interactions = append(c.Data.Interactions, i)
	return i
}

// InteractionEvent is published after an interaction has been stored.
type InteractionEvent struct {
	ConversationID string      `json:"conversation_id"`
	StartDate      string      `json:"start_date"`
	Interaction    Interaction `json:"interaction"`
}
