package conversation

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=conversation_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	Create(ctx context.Context, c *Conversation) error
	Replace(ctx context.Context, c *Conversation) error
}
