package services

import (
	"strings"
	"testing"
	"time"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

func TestUsageMetric(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		limit   int64
		wantPct int64
	}{
		{"half used", 500, 1000, 50},
		{"over limit", 1200, 1000, 120},
		{"unlimited plan", 3, -1, 0},
		{"zero limit", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := usageMetric(tt.current, tt.limit)
			if m.Current != tt.current || m.Limit != tt.limit {
				t.Errorf("metric: got %+v", m)
			}
			if m.Percentage != tt.wantPct {
				t.Errorf("percentage: got %d, want %d", m.Percentage, tt.wantPct)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	user := func(content string) models.Message {
		return models.Message{Role: models.RoleUser, Content: content}
	}
	bot := func(content string) models.Message {
		return models.Message{Role: models.RoleAssistant, Content: content}
	}

	tests := []struct {
		name     string
		messages []models.Message
		want     string
	}{
		{"no user messages", []models.Message{bot("Hi!")}, "No user messages"},
		{"single short question", []models.Message{bot("Hi!"), user("Pricing?")}, "Pricing?"},
		{
			"single long question",
			[]models.Message{user(strings.Repeat("x", 60))},
			strings.Repeat("x", 50) + "...",
		},
		{
			"multiple questions",
			[]models.Message{user("First question"), bot("Answer"), user("Second question")},
			"Started with: First question... Latest: Second question...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarize(tt.messages); got != tt.want {
				t.Errorf("summarize: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-49 * time.Hour), "2 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeTime(tt.t); got != tt.want {
				t.Errorf("relativeTime: got %q, want %q", got, tt.want)
			}
		})
	}
}
