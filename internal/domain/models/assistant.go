package models

import (
	"time"

	"github.com/google/uuid"
)

type AssistantType string

const (
	AssistantSales    AssistantType = "SALES"
	AssistantFeedback AssistantType = "FEEDBACK"
	AssistantSurvey   AssistantType = "SURVEY"
)

type AssistantStatus string

const (
	AssistantActive   AssistantStatus = "ACTIVE"
	AssistantInactive AssistantStatus = "INACTIVE"
	AssistantDraft    AssistantStatus = "DRAFT"
)

type DeliveryMethod string

const (
	DeliveryWidget DeliveryMethod = "WIDGET"
	DeliveryLink   DeliveryMethod = "LINK"
)

type Assistant struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	Name           string          `json:"name" db:"name"`
	Type           AssistantType   `json:"type" db:"type"`
	Instructions   string          `json:"instructions" db:"instructions"`
	WelcomeMessage string          `json:"welcome_message" db:"welcome_message"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method" db:"delivery_method"`
	Tone           string          `json:"tone" db:"tone"`
	ResponseLength string          `json:"response_length" db:"response_length"`
	Status         AssistantStatus `json:"status" db:"status"`
	Interactions   int64           `json:"interactions" db:"interactions"`
	TokensUsed     int64           `json:"tokens_used" db:"tokens_used"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
