package repository

import (
	"context"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/cache"
	"gorm.io/gorm"
)

const securityLogsTable = "security_logs"

type conversationStore interface {
	get(ctx context.Context, id string) (*conversation.Conversation, error)
	create(ctx context.Context, id string, doc *conversation.Conversation) error
	replace(ctx context.Context, id string, doc *conversation.Conversation) error
}

type conversationRepository struct {
	store conversationStore
}

func NewRedisConversationRepository(c cache.Client) conversation.Repository {
	return &conversationRepository{
		store: &redisDocumentStore[conversation.Conversation]{
			cache:      c,
			keyPattern: cache.ConversationKeyPattern,
			entityType: conversation.EntityType,
		},
	}
}

func NewPostgresConversationRepository(db *gorm.DB) conversation.Repository {
	return &conversationRepository{
		store: &postgresDocumentStore[conversation.Conversation]{
			db:         db,
			table:      securityLogsTable,
			entityType: conversation.EntityType,
		},
	}
}

func (r *conversationRepository) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	return r.store.get(ctx, id)
}

func (r *conversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	return r.store.create(ctx, c.ID, c)
}

func (r *conversationRepository) Replace(ctx context.Context, c *conversation.Conversation) error {
	return r.store.replace(ctx, c.ID, c)
}
