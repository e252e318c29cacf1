package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

type assistantRepository struct {
	db *PostgresDB
}

func NewAssistantRepository(db *PostgresDB) repositories.AssistantRepository {
	return &assistantRepository{db: db}
}

func (r *assistantRepository) Create(ctx context.Context, assistant *models.Assistant) error {
	if assistant.ID == uuid.Nil {
		assistant.ID = uuid.New()
	}

	query := `
		INSERT INTO assistants (id, user_id, name, type, instructions, welcome_message,
		                        delivery_method, tone, response_length, status, tokens_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, assistant.ID, assistant.UserID, assistant.Name,
		assistant.Type, assistant.Instructions, assistant.WelcomeMessage,
		assistant.DeliveryMethod, assistant.Tone, assistant.ResponseLength,
		assistant.Status, assistant.TokensUsed).Scan(&assistant.CreatedAt, &assistant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create assistant: %w", err)
	}
	return nil
}

func (r *assistantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assistant, error) {
	var assistant models.Assistant
	query := `
		SELECT id, user_id, name, type, instructions, welcome_message, delivery_method,
		       tone, response_length, status, interactions, tokens_used, created_at, updated_at
		FROM assistants WHERE id = $1`

	err := r.db.GetContext(ctx, &assistant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assistant %s not found", id)
		}
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}
	return &assistant, nil
}

func (r *assistantRepository) ListByUser(ctx context.Context, userID int64) ([]models.Assistant, error) {
	var assistants []models.Assistant
	query := `
		SELECT id, user_id, name, type, instructions, welcome_message, delivery_method,
		       tone, response_length, status, interactions, tokens_used, created_at, updated_at
		FROM assistants WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &assistants, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}
	return assistants, nil
}

func (r *assistantRepository) RecentByUser(ctx context.Context, userID int64, limit int) ([]models.Assistant, error) {
	var assistants []models.Assistant
	query := `
		SELECT id, user_id, name, type, instructions, welcome_message, delivery_method,
		       tone, response_length, status, interactions, tokens_used, created_at, updated_at
		FROM assistants WHERE user_id = $1
		ORDER BY updated_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &assistants, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent assistants: %w", err)
	}
	return assistants, nil
}

func (r *assistantRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID int64, status models.AssistantStatus) error {
	query := `UPDATE assistants SET status = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update assistant status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assistant %s not found", id)
	}
	return nil
}

func (r *assistantRepository) Delete(ctx context.Context, id uuid.UUID, userID int64) error {
	query := `DELETE FROM assistants WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete assistant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assistant %s not found", id)
	}
	return nil
}

func (r *assistantRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assistants WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("failed to count assistants: %w", err)
	}
	return count, nil
}

func (r *assistantRepository) SumInteractionsByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(interactions), 0) FROM assistants WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &sum, query, userID); err != nil {
		return 0, fmt.Errorf("failed to sum interactions: %w", err)
	}
	return sum, nil
}
