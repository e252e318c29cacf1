package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *models.Conversation) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Conversation, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, userID int64, status models.ConversationStatus) error

	// AddMessage appends a message to a conversation.
	AddMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)

	// RecordUsage bumps the conversation's token counter and the owning
	// assistant's interaction/token counters in one transaction.
	RecordUsage(ctx context.Context, conversationID uuid.UUID, assistantID uuid.UUID, tokens int64) error

	Stats(ctx context.Context, userID int64) (*models.ConversationStats, error)
}
