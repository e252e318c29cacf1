package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/cache"
)

const statsCacheTTL = 30 * time.Second

type DashboardService interface {
	Stats(ctx context.Context, userID int64) (*models.DashboardStats, error)
	RecentActivity(ctx context.Context, userID int64) ([]models.RecentAssistant, error)
	Usage(ctx context.Context, userID int64) (*models.UsageReport, error)
	Responses(ctx context.Context, userID int64) ([]models.ConversationResponse, error)
	ResponseStats(ctx context.Context, userID int64) (*models.ConversationStats, error)
	InvalidateStats(ctx context.Context, userID int64)
}

type dashboardService struct {
	users         repositories.UserRepository
	assistants    repositories.AssistantRepository
	conversations repositories.ConversationRepository
	ledger        repositories.LedgerRepository
	cache         *cache.RedisClient
	logger        *slog.Logger
}

func NewDashboardService(
	users repositories.UserRepository,
	assistants repositories.AssistantRepository,
	conversations repositories.ConversationRepository,
	ledger repositories.LedgerRepository,
	cacheClient *cache.RedisClient,
	logger *slog.Logger,
) DashboardService {
	return &dashboardService{
		users:         users,
		assistants:    assistants,
		conversations: conversations,
		ledger:        ledger,
		cache:         cacheClient,
		logger:        logger,
	}
}

func statsCacheKey(userID int64) string {
	return fmt.Sprintf("dashboard:stats:%d", userID)
}

func (s *dashboardService) Stats(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	var cached models.DashboardStats
	if s.cache != nil {
		if hit, _ := s.cache.GetJSON(ctx, statsCacheKey(userID), &cached); hit {
			return &cached, nil
		}
	}

	assistantCount, err := s.assistants.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.assistants.SumInteractionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		AssistantCount:    assistantCount,
		TotalInteractions: interactions,
		Tokens:            balance,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey(userID), stats, statsCacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", "user_id", userID, "error", err)
		}
	}
	return stats, nil
}

func (s *dashboardService) InvalidateStats(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, statsCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard stats", "user_id", userID, "error", err)
	}
}

func (s *dashboardService) RecentActivity(ctx context.Context, userID int64) ([]models.RecentAssistant, error) {
	assistants, err := s.assistants.RecentByUser(ctx, userID, 4)
	if err != nil {
		return nil, err
	}

	recent := make([]models.RecentAssistant, 0, len(assistants))
	for _, a := range assistants {
		recent = append(recent, models.RecentAssistant{
			ID:           a.ID.String(),
			Name:         a.Name,
			Type:         a.Type,
			Status:       a.Status,
			Interactions: a.Interactions,
			LastActive:   relativeTime(a.UpdatedAt),
		})
	}
	return recent, nil
}

func (s *dashboardService) Usage(ctx context.Context, userID int64) (*models.UsageReport, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	assistantCount, err := s.assistants.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.assistants.SumInteractionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	consumed, err := s.ledger.SumConsumed(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := user.Plan.Limits()
	return &models.UsageReport{
		Assistants:   usageMetric(assistantCount, limits.Assistants),
		Interactions: usageMetric(interactions, limits.Interactions),
		TeamMembers:  usageMetric(1, limits.TeamMembers),
		Tokens: models.TokenUsageMetric{
			Current: user.Tokens,
			Used:    consumed,
			Limit:   limits.MonthlyTokens,
		},
		Plan: user.Plan,
	}, nil
}

func (s *dashboardService) Responses(ctx context.Context, userID int64) ([]models.ConversationResponse, error) {
	conversations, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		assistant, err := s.assistants.GetByID(ctx, conv.AssistantID)
		if err != nil {
			return nil, err
		}

		messages, err := s.conversations.ListMessages(ctx, conv.ID)
		if err != nil {
			return nil, err
		}

		full := make([]models.ResponseMessage, 0, len(messages))
		for _, msg := range messages {
			full = append(full, models.ResponseMessage{
				Role:    strings.ToLower(string(msg.Role)),
				Content: msg.Content,
				Tokens:  msg.Tokens,
			})
		}

		visitor := "Anonymous"
		if conv.UserEmail != nil && *conv.UserEmail != "" {
			visitor = *conv.UserEmail
		}

		responses = append(responses, models.ConversationResponse{
			ID:           conv.ID.String(),
			Assistant:    assistant.Name,
			User:         visitor,
			Timestamp:    conv.CreatedAt.Format("2006-01-02 15:04"),
			Type:         assistant.Type,
			Status:       strings.ToLower(string(conv.Status)),
			Messages:     len(messages),
			TokensUsed:   conv.TokensUsed,
			Summary:      summarize(messages),
			Conversation: full,
		})
	}
	return responses, nil
}

func (s *dashboardService) ResponseStats(ctx context.Context, userID int64) (*models.ConversationStats, error) {
	return s.conversations.Stats(ctx, userID)
}

func usageMetric(current, limit int64) models.UsageMetric {
	metric := models.UsageMetric{Current: current, Limit: limit}
	if limit > 0 {
		metric.Percentage = current * 100 / limit
	}
	return metric
}

func summarize(messages []models.Message) string {
	var userMessages []models.Message
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			userMessages = append(userMessages, msg)
		}
	}
	if len(userMessages) == 0 {
		return "No user messages"
	}

	first := userMessages[0].Content
	if len(userMessages) == 1 {
		if len(first) > 50 {
			return first[:50] + "..."
		}
		return first
	}

	last := userMessages[len(userMessages)-1].Content
	return fmt.Sprintf("Started with: %s... Latest: %s...", truncate(first, 30), truncate(last, 30))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func relativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}
