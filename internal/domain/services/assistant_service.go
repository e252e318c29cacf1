package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

type CreateAssistantRequest struct {
	Name           string                `json:"name" binding:"required"`
	Type           models.AssistantType  `json:"type" binding:"required"`
	Instructions   string                `json:"instructions" binding:"required"`
	WelcomeMessage string                `json:"welcome_message" binding:"required"`
	DeliveryMethod models.DeliveryMethod `json:"delivery_method" binding:"required"`
	Tone           string                `json:"tone"`
	ResponseLength string                `json:"response_length"`
}

type AssistantService interface {
	Create(ctx context.Context, userID int64, req *CreateAssistantRequest) (*models.Assistant, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (*models.Assistant, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*models.Assistant, error)
	List(ctx context.Context, userID int64) ([]models.Assistant, error)
	UpdateStatus(ctx context.Context, userID int64, id uuid.UUID, status models.AssistantStatus) error
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
	Duplicate(ctx context.Context, userID int64, id uuid.UUID) (*models.Assistant, error)
}

type assistantService struct {
	repo   repositories.AssistantRepository
	ledger LedgerService
	logger *slog.Logger
}

func NewAssistantService(repo repositories.AssistantRepository, ledger LedgerService, logger *slog.Logger) AssistantService {
	return &assistantService{repo: repo, ledger: ledger, logger: logger}
}

// Create charges the instruction cost plus the base creation cost before
// persisting anything. A failed deduction leaves no assistant row behind.
func (s *assistantService) Create(ctx context.Context, userID int64, req *CreateAssistantRequest) (*models.Assistant, error) {
	instructionTokens := InstructionCost(req.Instructions, req.WelcomeMessage)
	totalTokens := instructionTokens + BaseCreationCost

	description := fmt.Sprintf("Created assistant: %s (%d instruction tokens + %d base cost)",
		req.Name, instructionTokens, BaseCreationCost)

	if err := s.ledger.Deduct(ctx, userID, totalTokens, models.OpCreateAssistant, nil, description); err != nil {
		return nil, err
	}

	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}
	responseLength := req.ResponseLength
	if responseLength == "" {
		responseLength = "medium"
	}

	assistant := &models.Assistant{
		UserID:         userID,
		Name:           req.Name,
		Type:           req.Type,
		Instructions:   req.Instructions,
		WelcomeMessage: req.WelcomeMessage,
		DeliveryMethod: req.DeliveryMethod,
		Tone:           tone,
		ResponseLength: responseLength,
		Status:         models.AssistantActive,
		TokensUsed:     instructionTokens,
	}

	if err := s.repo.Create(ctx, assistant); err != nil {
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	s.logger.Info("assistant created",
		"user_id", userID, "assistant_id", assistant.ID, "tokens", totalTokens)
	return assistant, nil
}

func (s *assistantService) Get(ctx context.Context, userID int64, id uuid.UUID) (*models.Assistant, error) {
	assistant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assistant.UserID != userID {
		return nil, fmt.Errorf("assistant %s not found", id)
	}
	return assistant, nil
}

// GetPublic serves the chat widget; it does not require ownership.
func (s *assistantService) GetPublic(ctx context.Context, id uuid.UUID) (*models.Assistant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *assistantService) List(ctx context.Context, userID int64) ([]models.Assistant, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *assistantService) UpdateStatus(ctx context.Context, userID int64, id uuid.UUID, status models.AssistantStatus) error {
	return s.repo.UpdateStatus(ctx, id, userID, status)
}

func (s *assistantService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// Duplicate prices the copy exactly like a fresh creation. The copy starts
// as a draft.
func (s *assistantService) Duplicate(ctx context.Context, userID int64, id uuid.UUID) (*models.Assistant, error) {
	original, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	instructionTokens := InstructionCost(original.Instructions, original.WelcomeMessage)
	totalTokens := instructionTokens + BaseCreationCost

	if err := s.ledger.Deduct(ctx, userID, totalTokens, models.OpDuplicateAssistant, &original.ID,
		fmt.Sprintf("Duplicated assistant: %s", original.Name)); err != nil {
		return nil, err
	}

	copy := &models.Assistant{
		UserID:         userID,
		Name:           original.Name + " (Copy)",
		Type:           original.Type,
		Instructions:   original.Instructions,
		WelcomeMessage: original.WelcomeMessage,
		DeliveryMethod: original.DeliveryMethod,
		Tone:           original.Tone,
		ResponseLength: original.ResponseLength,
		Status:         models.AssistantDraft,
		TokensUsed:     instructionTokens,
	}

	if err := s.repo.Create(ctx, copy); err != nil {
		return nil, fmt.Errorf("failed to duplicate assistant: %w", err)
	}

	s.logger.Info("assistant duplicated",
		"user_id", userID, "source_id", id, "copy_id", copy.ID, "tokens", totalTokens)
	return copy, nil
}
