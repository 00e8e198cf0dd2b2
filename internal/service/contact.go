package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/event"
	"github.com/AayushAcharya189/SportGear/internal/repository"
)

// ContactNotifier forwards a stored contact message to the support inbox.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error
}

// ContactService stores contact form submissions and notifies support.
type ContactService struct {
	repo     repository.ContactRepository
	notifier ContactNotifier
	producer *event.Producer
	logger   *slog.Logger
}

// NewContactService creates a contact service. The notifier may be nil when
// no mail gateway is configured.
func NewContactService(
	repo repository.ContactRepository,
	notifier ContactNotifier,
	producer *event.Producer,
	logger *slog.Logger,
) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		producer: producer,
		logger:   logger,
	}
}

// ContactInput holds a contact form submission.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// Submit persists the message, then notifies support. Notification and event
// failures are logged but do not fail the submission; the message is already
// stored.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendContactNotification(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "failed to notify support of contact message",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishContactReceived(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("message_id", msg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("message_id", msg.ID),
	)

	return msg, nil
}

// ListMessages returns stored messages for the admin inbox, newest first.
func (s *ContactService) ListMessages(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	messages, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, total, nil
}
