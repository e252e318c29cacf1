package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

type ledgerRepository struct {
	db *PostgresDB
}

func NewLedgerRepository(db *PostgresDB) repositories.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Deduct runs the sufficiency check and the decrement as one conditional
// UPDATE so two concurrent deductions cannot both pass a stale balance read.
// The ledger insert shares the transaction; a failed check writes nothing.
func (r *ledgerRepository) Deduct(ctx context.Context, entry *models.TokenUsage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin deduction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET tokens = tokens - $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND tokens >= $2`,
		entry.UserID, entry.Tokens)
	if err != nil {
		return fmt.Errorf("failed to deduct tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrInsufficientTokens
	}

	if err := insertEntry(ctx, tx, entry, entry.Tokens); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deduction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Credit(ctx context.Context, entry *models.TokenUsage, tokens int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin credit: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET tokens = tokens + $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		entry.UserID, tokens)
	if err != nil {
		return fmt.Errorf("failed to credit tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with id %d not found", entry.UserID)
	}

	if err := insertEntry(ctx, tx, entry, -tokens); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credit: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ResetBalance(ctx context.Context, userID int64, plan models.UserPlan, entry *models.TokenUsage) error {
	allotment := plan.TokenAllotment()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin plan reset: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET tokens = $2, plan = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		userID, allotment, plan)
	if err != nil {
		return fmt.Errorf("failed to reset balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with id %d not found", userID)
	}

	if err := insertEntry(ctx, tx, entry, -allotment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan reset: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT tokens FROM users WHERE id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.TokenUsage, error) {
	var entries []models.TokenUsage
	query := `SELECT id, user_id, assistant_id, operation, tokens, description, created_at
	          FROM token_usage WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list token usage: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) SumConsumed(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(tokens), 0) FROM token_usage WHERE user_id = $1 AND tokens > 0`

	if err := r.db.GetContext(ctx, &sum, query, userID); err != nil {
		return 0, fmt.Errorf("failed to sum consumed tokens: %w", err)
	}
	return sum, nil
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, entry *models.TokenUsage, amount int64) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO token_usage (id, user_id, assistant_id, operation, tokens, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.AssistantID, entry.Operation, amount, entry.Description)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	entry.Tokens = amount
	return nil
}
