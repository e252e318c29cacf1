package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/ai"
)

// ErrAIProvider wraps a failed generation call. No tokens are charged for a
// failed call; the handler answers with a generic try-again.
var ErrAIProvider = errors.New("failed to generate AI response")

// apologyMessage replaces the AI answer when the owner's balance cannot
// cover the generated response.
const apologyMessage = "I apologize, but you've run out of tokens. Please upgrade your plan to continue chatting."

// TurnResult reports one chat turn. When InsufficientTokens is set, Message
// is the persisted apology and TokensUsed is zero.
type TurnResult struct {
	Message            *models.Message `json:"message"`
	TokensUsed         int64           `json:"tokens_used"`
	InsufficientTokens bool            `json:"-"`
	OwnerID            int64           `json:"-"`
}

type ConversationDetail struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
}

type ChatService interface {
	StartConversation(ctx context.Context, assistantID uuid.UUID, userEmail *string) (*ConversationDetail, error)
	SendMessage(ctx context.Context, conversationID uuid.UUID, userMessage string) (*TurnResult, error)
	GetConversation(ctx context.Context, conversationID uuid.UUID) (*ConversationDetail, error)
	UpdateStatus(ctx context.Context, userID int64, conversationID uuid.UUID, status models.ConversationStatus) error
}

type chatService struct {
	conversations repositories.ConversationRepository
	assistants    repositories.AssistantRepository
	ledger        LedgerService
	provider      ai.Provider
	logger        *slog.Logger
}

func NewChatService(
	conversations repositories.ConversationRepository,
	assistants repositories.AssistantRepository,
	ledger LedgerService,
	provider ai.Provider,
	logger *slog.Logger,
) ChatService {
	return &chatService{
		conversations: conversations,
		assistants:    assistants,
		ledger:        ledger,
		provider:      provider,
		logger:        logger,
	}
}

// StartConversation opens a conversation against an active assistant and
// seeds it with the assistant's welcome message at zero cost. The
// conversation is attributed to the assistant's owner; visitors are tracked
// by email only.
func (s *chatService) StartConversation(ctx context.Context, assistantID uuid.UUID, userEmail *string) (*ConversationDetail, error) {
	assistant, err := s.assistants.GetByID(ctx, assistantID)
	if err != nil {
		return nil, err
	}
	if assistant.Status != models.AssistantActive {
		return nil, fmt.Errorf("assistant %s is not active", assistantID)
	}

	conversation := &models.Conversation{
		AssistantID: assistant.ID,
		UserID:      assistant.UserID,
		UserEmail:   userEmail,
		Status:      models.ConversationActive,
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, err
	}

	welcome := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
		Content:        assistant.WelcomeMessage,
		Tokens:         0,
	}
	if err := s.conversations.AddMessage(ctx, welcome); err != nil {
		return nil, err
	}

	return &ConversationDetail{
		Conversation: conversation,
		Messages:     []models.Message{*welcome},
	}, nil
}

// SendMessage runs one chat turn. The inbound message is persisted before
// the provider call and stays persisted whatever happens after; the answer
// is only persisted once its actual token cost has been deducted from the
// owner's balance.
func (s *chatService) SendMessage(ctx context.Context, conversationID uuid.UUID, userMessage string) (*TurnResult, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, fmt.Errorf("message content is required")
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	assistant, err := s.assistants.GetByID(ctx, conversation.AssistantID)
	if err != nil {
		return nil, err
	}

	history, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	inbound := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        userMessage,
		Tokens:         0,
	}
	if err := s.conversations.AddMessage(ctx, inbound); err != nil {
		return nil, err
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "assistant"
		}
		turns = append(turns, ai.Turn{Role: role, Content: msg.Content})
	}

	result, err := s.provider.Generate(ctx, systemPrompt(assistant), turns, userMessage)
	if err != nil {
		s.logger.Error("AI generation failed",
			"conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAIProvider, err)
	}

	deductErr := s.ledger.Deduct(ctx, conversation.UserID, result.TokensUsed,
		models.OpChatMessage, &conversation.AssistantID,
		fmt.Sprintf("AI response in conversation %s", conversationID))

	if errors.Is(deductErr, ErrInsufficientTokens) {
		// The generated answer is discarded; the visitor sees the apology
		// and nothing is charged.
		apology := &models.Message{
			ConversationID: conversationID,
			Role:           models.RoleAssistant,
			Content:        apologyMessage,
			Tokens:         0,
		}
		if err := s.conversations.AddMessage(ctx, apology); err != nil {
			return nil, err
		}
		return &TurnResult{Message: apology, InsufficientTokens: true, OwnerID: conversation.UserID}, nil
	}
	if deductErr != nil {
		return nil, deductErr
	}

	answer := &models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        result.Text,
		Tokens:         result.TokensUsed,
	}
	if err := s.conversations.AddMessage(ctx, answer); err != nil {
		return nil, err
	}

	if err := s.conversations.RecordUsage(ctx, conversationID, conversation.AssistantID, result.TokensUsed); err != nil {
		s.logger.Error("failed to update usage counters",
			"conversation_id", conversationID, "error", err)
	}

	return &TurnResult{Message: answer, TokensUsed: result.TokensUsed, OwnerID: conversation.UserID}, nil
}

func (s *chatService) GetConversation(ctx context.Context, conversationID uuid.UUID) (*ConversationDetail, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &ConversationDetail{Conversation: conversation, Messages: messages}, nil
}

func (s *chatService) UpdateStatus(ctx context.Context, userID int64, conversationID uuid.UUID, status models.ConversationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.conversations.UpdateStatus(ctx, conversationID, userID, status)
}

func systemPrompt(assistant *models.Assistant) string {
	var length string
	switch assistant.ResponseLength {
	case "short":
		length = "Keep responses brief and concise"
	case "detailed":
		length = "Provide detailed and comprehensive responses"
	default:
		length = "Provide moderate length responses"
	}

	return fmt.Sprintf(`You are an AI assistant for %s purposes.

Instructions: %s

Tone: %s
Response Length: %s

Always stay in character and follow the instructions provided. Be helpful, professional, and focused on the specific purpose of this assistant.`,
		strings.ToLower(string(assistant.Type)), assistant.Instructions, assistant.Tone, length)
}
