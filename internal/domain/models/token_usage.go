package models

import (
	"time"

	"github.com/google/uuid"
)

type TokenOperation string

const (
	OpCreateAssistant    TokenOperation = "create_assistant"
	OpDuplicateAssistant TokenOperation = "duplicate_assistant"
	OpChatMessage        TokenOperation = "chat_message"
	OpPlanUpgrade        TokenOperation = "plan_upgrade"
	OpTokenPurchase      TokenOperation = "token_purchase"
	OpWelcomeBonus       TokenOperation = "welcome_bonus"
)

// TokenUsage is one immutable ledger entry. Positive amounts are consumption,
// negative amounts are credits; the user's balance is a materialized view of
// the entry sum, so rows are only ever written in the same transaction as the
// balance change they explain.
type TokenUsage struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      int64          `json:"user_id" db:"user_id"`
	AssistantID *uuid.UUID     `json:"assistant_id,omitempty" db:"assistant_id"`
	Operation   TokenOperation `json:"operation" db:"operation"`
	Tokens      int64          `json:"tokens" db:"tokens"`
	Description string         `json:"description" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
