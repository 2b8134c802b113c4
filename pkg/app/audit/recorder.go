package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

var ErrMissingConversationID = errors.New("conversation id is required")

// EventExporter receives every interaction once it has been stored.
type EventExporter interface {
	Handle(ctx context.Context, evt *conversation.InteractionEvent) error
}

//go:generate mockery --name=Recorder --dir=. --output=./mocks --filename=recorder_mock.go --case=underscore --with-expecter
type Recorder interface {
	Record(ctx context.Context, conversationID, question, answer, sources string, checks map[string]any) error
	Get(ctx context.Context, conversationID string) (*conversation.Conversation, error)
}

type Option func(*recorder)

func WithClock(now func() time.Time) Option {
	return func(r *recorder) {
		r.now = now
	}
}

func WithExporter(exporter EventExporter) Option {
	return func(r *recorder) {
		r.exporter = exporter
	}
}

type recorder struct {
	repo     conversation.Repository
	exporter EventExporter
	now      func() time.Time
	logger   *logrus.Logger
}

func NewRecorder(repo conversation.Repository, logger *logrus.Logger, opts ...Option) Recorder {
	r := &recorder{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one interaction to the conversation document, creating it
// on first use. Concurrent appends to the same conversation are not
// isolated; the last replace wins.
func (r *recorder) Record(
	ctx context.Context,
	conversationID, question, answer, sources string,
	checks map[string]any,
) error {
	if conversationID == "" {
		return ErrMissingConversationID
	}

	conv, err := r.loadOrCreate(ctx, conversationID)
	if err != nil {
		prometheus.AuditRecordTotal.WithLabelValues("error").Inc()
		return err
	}

	interaction := conv.Append(r.now(), conversation.Interaction{
		Question:       question,
		Answer:         answer,
		Sources:        sources,
		SecurityChecks: checks,
	})

	if err := r.repo.Replace(ctx, conv); err != nil {
		prometheus.AuditRecordTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to store conversation %s: %w", conversationID, err)
	}
	prometheus.AuditRecordTotal.WithLabelValues("ok").Inc()

	r.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"interactions":    len(conv.Data.Interactions),
	}).Debug("interaction recorded")

	if r.exporter != nil {
		evt := &conversation.InteractionEvent{
			ConversationID: conversationID,
			StartDate:      conv.Data.StartDate,
			Interaction:    interaction,
		}
		if err := r.exporter.Handle(ctx, evt); err != nil {
			r.logger.WithError(err).WithField("conversation_id", conversationID).Warn("failed to export interaction")
		}
	}
	return nil
}

func (r *recorder) Get(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	if conversationID == "" {
		return nil, ErrMissingConversationID
	}
	return r.repo.Get(ctx, conversationID)
}

func (r *recorder) loadOrCreate(ctx context.Context, id string) (*conversation.Conversation, error) {
	conv, err := r.repo.Get(ctx, id)
	if err == nil {
		return conv, nil
	}
	if !domain.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to read conversation %s: %w", id, err)
	}

	conv = conversation.New(id)
	if err := r.repo.Create(ctx, conv); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create conversation %s: %w", id, err)
		}
		if conv, err = r.repo.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to read conversation %s: %w", id, err)
		}
	}
	return conv, nil
}
