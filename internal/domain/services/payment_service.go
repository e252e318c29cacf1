package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
)

// centsPerTenTokens prices ad-hoc token packs at $0.01 per 10 tokens.
const centsPerTenTokens int64 = 1

type PaymentService interface {
	CreatePlanCheckout(ctx context.Context, userID int64, plan models.UserPlan, successURL, cancelURL string) (string, string, error)
	CreateTokenCheckout(ctx context.Context, userID int64, tokens int64, successURL, cancelURL string) (string, string, error)
	CompleteCheckout(ctx context.Context, sessionID string) error
}

type StripeService struct {
	userRepo repositories.UserRepository
	ledger   LedgerService
	prices   map[models.UserPlan]string
	logger   *slog.Logger
}

func NewStripeService(userRepo repositories.UserRepository, ledger LedgerService, prices map[models.UserPlan]string, logger *slog.Logger) *StripeService {
	return &StripeService{
		userRepo: userRepo,
		ledger:   ledger,
		prices:   prices,
		logger:   logger,
	}
}

func (s *StripeService) CreatePlanCheckout(ctx context.Context, userID int64, plan models.UserPlan, successURL, cancelURL string) (string, string, error) {
	priceID, exists := s.prices[plan]
	if !exists {
		return "", "", fmt.Errorf("invalid plan: %s", plan)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"plan":    string(plan),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

func (s *StripeService) CreateTokenCheckout(ctx context.Context, userID int64, tokens int64, successURL, cancelURL string) (string, string, error) {
	if tokens <= 0 {
		return "", "", fmt.Errorf("token amount must be positive")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	amount := tokens / 10 * centsPerTenTokens
	if amount < 50 {
		return "", "", fmt.Errorf("minimum purchase is 5000 tokens")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%d tokens", tokens)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"tokens":  strconv.FormatInt(tokens, 10),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

// CompleteCheckout confirms a paid session and applies its outcome through
// the ledger: a plan upgrade resets the balance, a token pack credits it.
func (s *StripeService) CompleteCheckout(ctx context.Context, sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("failed to get checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return fmt.Errorf("checkout session %s is not paid", sessionID)
	}

	userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
	if err != nil {
		return fmt.Errorf("checkout session %s has no user: %w", sessionID, err)
	}

	if plan, ok := sess.Metadata["plan"]; ok {
		if err := s.ledger.SetPlan(ctx, userID, models.UserPlan(plan)); err != nil {
			return err
		}
		s.logger.Info("plan checkout completed", "user_id", userID, "plan", plan)
		return nil
	}

	tokens, err := strconv.ParseInt(sess.Metadata["tokens"], 10, 64)
	if err != nil {
		return fmt.Errorf("checkout session %s has no purchase payload: %w", sessionID, err)
	}

	if err := s.ledger.Credit(ctx, userID, tokens, fmt.Sprintf("Purchased %d tokens", tokens)); err != nil {
		return err
	}
	s.logger.Info("token checkout completed", "user_id", userID, "tokens", tokens)
	return nil
}
