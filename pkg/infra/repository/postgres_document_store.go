package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"gorm.io/gorm"
)

type documentRecord struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Document  string    `gorm:"column:document;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// postgresDocumentStore mirrors redisDocumentStore on a (id, document jsonb) table.
type postgresDocumentStore[T any] struct {
	db         *gorm.DB
	table      string
	entityType string
}

func (s *postgresDocumentStore[T]) get(ctx context.Context, id string) (*T, error) {
	var rec documentRecord
	err := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(s.entityType, id)
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.entityType, err)
	}
	var doc T
	if err := json.Unmarshal([]byte(rec.Document), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", s.entityType, err)
	}
	return &doc, nil
}

func (s *postgresDocumentStore[T]) create(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.entityType, err)
	}
	now := time.Now()
	rec := documentRecord{ID: id, Document: string(data), CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Table(s.table).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s %s: %w", s.entityType, id, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create %s: %w", s.entityType, err)
	}
	return nil
}

func (s *postgresDocumentStore[T]) replace(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.entityType, err)
	}
	res := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).Updates(map[string]any{
		"document":   string(data),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to replace %s: %w", s.entityType, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(s.entityType, id)
	}
	return nil
}
