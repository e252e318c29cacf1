package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

type conversationRepository struct {
	db *PostgresDB
}

func NewConversationRepository(db *PostgresDB) repositories.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}

	query := `
		INSERT INTO conversations (id, assistant_id, user_id, user_email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, conversation.ID, conversation.AssistantID,
		conversation.UserID, conversation.UserEmail, conversation.Status).
		Scan(&conversation.CreatedAt, &conversation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	query := `
		SELECT id, assistant_id, user_id, user_email, status, tokens_used, created_at, updated_at
		FROM conversations WHERE id = $1`

	err := r.db.GetContext(ctx, &conversation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation %s not found", id)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conversation, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	var conversations []models.Conversation
	query := `
		SELECT id, assistant_id, user_id, user_email, status, tokens_used, created_at, updated_at
		FROM conversations WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &conversations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (r *conversationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID int64, status models.ConversationStatus) error {
	query := `UPDATE conversations SET status = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update conversation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("conversation %s not found", id)
	}
	return nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	query := `
		INSERT INTO messages (id, conversation_id, role, content, tokens)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, message.ID, message.ConversationID,
		message.Role, message.Content, message.Tokens).Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, conversation_id, role, content, tokens, created_at
		FROM messages WHERE conversation_id = $1
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *conversationRepository) RecordUsage(ctx context.Context, conversationID uuid.UUID, assistantID uuid.UUID, tokens int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin usage update: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET tokens_used = tokens_used + $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1`, conversationID, tokens)
	if err != nil {
		return fmt.Errorf("failed to update conversation usage: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE assistants SET interactions = interactions + 1, tokens_used = tokens_used + $2,
		 updated_at = CURRENT_TIMESTAMP WHERE id = $1`, assistantID, tokens)
	if err != nil {
		return fmt.Errorf("failed to update assistant usage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit usage update: %w", err)
	}
	return nil
}

func (r *conversationRepository) Stats(ctx context.Context, userID int64) (*models.ConversationStats, error) {
	var row struct {
		Total       int64 `db:"total"`
		Completed   int64 `db:"completed"`
		Messages    int64 `db:"messages"`
		UniqueUsers int64 `db:"unique_users"`
		Tokens      int64 `db:"tokens"`
	}

	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE c.status = 'COMPLETED') AS completed,
		       COALESCE((SELECT COUNT(*) FROM messages m
		                 JOIN conversations c2 ON c2.id = m.conversation_id
		                 WHERE c2.user_id = $1), 0) AS messages,
		       COUNT(DISTINCT c.user_email) FILTER (WHERE c.user_email IS NOT NULL) AS unique_users,
		       COALESCE(SUM(c.tokens_used), 0) AS tokens
		FROM conversations c
		WHERE c.user_id = $1`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get conversation stats: %w", err)
	}

	stats := &models.ConversationStats{
		TotalResponses:  row.Total,
		UniqueUsers:     row.UniqueUsers,
		TotalTokensUsed: row.Tokens,
	}
	if row.Total > 0 {
		stats.CompletionRate = row.Completed * 100 / row.Total
		stats.AvgMessages = row.Messages / row.Total
	}
	return stats, nil
}
