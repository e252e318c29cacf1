package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

type AssistantRepository interface {
	Create(ctx context.Context, assistant *models.Assistant) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Assistant, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Assistant, error)
	RecentByUser(ctx context.Context, userID int64, limit int) ([]models.Assistant, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, userID int64, status models.AssistantStatus) error
	Delete(ctx context.Context, id uuid.UUID, userID int64) error

	CountByUser(ctx context.Context, userID int64) (int64, error)
	SumInteractionsByUser(ctx context.Context, userID int64) (int64, error)
}
