package models

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationActive    ConversationStatus = "ACTIVE"
	ConversationCompleted ConversationStatus = "COMPLETED"
	ConversationArchived  ConversationStatus = "ARCHIVED"
)

func (s ConversationStatus) Valid() bool {
	switch s {
	case ConversationActive, ConversationCompleted, ConversationArchived:
		return true
	}
	return false
}

type MessageRole string

const (
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
)

type Conversation struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	AssistantID uuid.UUID          `json:"assistant_id" db:"assistant_id"`
	UserID      int64              `json:"user_id" db:"user_id"`
	UserEmail   *string            `json:"user_email,omitempty" db:"user_email"`
	Status      ConversationStatus `json:"status" db:"status"`
	TokensUsed  int64              `json:"tokens_used" db:"tokens_used"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

type Message struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	Role           MessageRole `json:"role" db:"role"`
	Content        string      `json:"content" db:"content"`
	Tokens         int64       `json:"tokens" db:"tokens"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}
