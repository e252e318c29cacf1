package repositories

import (
	"context"
	"errors"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

// ErrInsufficientTokens is the expected outcome of a deduction against a
// balance smaller than the charge. It is not a storage fault; callers branch
// on it with errors.Is.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// LedgerRepository is the only code allowed to touch users.tokens or insert
// token_usage rows. Every method pairs the balance change with its ledger
// entry in a single transaction.
type LedgerRepository interface {
	// Deduct subtracts entry.Tokens (positive) from the user's balance and
	// appends the entry. The decrement is conditional on the balance covering
	// the charge; otherwise nothing is written and ErrInsufficientTokens is
	// returned.
	Deduct(ctx context.Context, entry *models.TokenUsage) error

	// Credit adds tokens to the user's balance and appends the entry with the
	// amount negated (credits are recorded as negative consumption).
	Credit(ctx context.Context, entry *models.TokenUsage, tokens int64) error

	// ResetBalance overwrites the balance with the plan's allotment, updates
	// the user's plan, and appends a ledger entry for the negated allotment.
	ResetBalance(ctx context.Context, userID int64, plan models.UserPlan, entry *models.TokenUsage) error

	Balance(ctx context.Context, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.TokenUsage, error)

	// SumConsumed totals the positive (consumption) entries for a user.
	SumConsumed(ctx context.Context, userID int64) (int64, error)
}
