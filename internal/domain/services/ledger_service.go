package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

// ErrInsufficientTokens is returned when a deduction exceeds the balance. It
// is an expected business outcome, not a system fault; handlers surface its
// message to the end user verbatim.
var ErrInsufficientTokens = errors.New("insufficient tokens, please upgrade your plan")

// ErrInvalidDeduction rejects a deduction before storage is touched.
var ErrInvalidDeduction = errors.New("missing required fields")

// LedgerService is the single authority for changing a user's token balance.
// No other code path mutates the balance or inserts usage rows.
type LedgerService interface {
	Deduct(ctx context.Context, userID int64, tokens int64, operation models.TokenOperation, assistantID *uuid.UUID, description string) error
	Credit(ctx context.Context, userID int64, tokens int64, reason string) error
	SetPlan(ctx context.Context, userID int64, plan models.UserPlan) error
	Balance(ctx context.Context, userID int64) (int64, error)
	History(ctx context.Context, userID int64, limit int) ([]models.TokenUsage, error)
}

const historyLimit = 50

type ledgerService struct {
	repo   repositories.LedgerRepository
	logger *slog.Logger
}

func NewLedgerService(repo repositories.LedgerRepository, logger *slog.Logger) LedgerService {
	return &ledgerService{repo: repo, logger: logger}
}

func (s *ledgerService) Deduct(ctx context.Context, userID int64, tokens int64, operation models.TokenOperation, assistantID *uuid.UUID, description string) error {
	if tokens <= 0 || operation == "" {
		return ErrInvalidDeduction
	}

	entry := &models.TokenUsage{
		UserID:      userID,
		AssistantID: assistantID,
		Operation:   operation,
		Tokens:      tokens,
		Description: description,
	}

	err := s.repo.Deduct(ctx, entry)
	if errors.Is(err, repositories.ErrInsufficientTokens) {
		return ErrInsufficientTokens
	}
	if err != nil {
		return fmt.Errorf("failed to deduct tokens: %w", err)
	}

	s.logger.Info("tokens deducted",
		"user_id", userID, "tokens", tokens, "operation", operation)
	return nil
}

func (s *ledgerService) Credit(ctx context.Context, userID int64, tokens int64, reason string) error {
	if tokens <= 0 {
		return ErrInvalidDeduction
	}

	entry := &models.TokenUsage{
		UserID:      userID,
		Operation:   models.OpTokenPurchase,
		Description: reason,
	}

	if err := s.repo.Credit(ctx, entry, tokens); err != nil {
		return fmt.Errorf("failed to credit tokens: %w", err)
	}

	s.logger.Info("tokens credited", "user_id", userID, "tokens", tokens, "reason", reason)
	return nil
}

func (s *ledgerService) SetPlan(ctx context.Context, userID int64, plan models.UserPlan) error {
	if !plan.Valid() {
		return fmt.Errorf("invalid plan: %s", plan)
	}

	entry := &models.TokenUsage{
		UserID:      userID,
		Operation:   models.OpPlanUpgrade,
		Description: fmt.Sprintf("Upgraded to %s plan", plan),
	}

	if err := s.repo.ResetBalance(ctx, userID, plan, entry); err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}

	s.logger.Info("plan changed",
		"user_id", userID, "plan", plan, "allotment", plan.TokenAllotment())
	return nil
}

func (s *ledgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Balance(ctx, userID)
}

func (s *ledgerService) History(ctx context.Context, userID int64, limit int) ([]models.TokenUsage, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
