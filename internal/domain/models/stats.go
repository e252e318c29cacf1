package models

// DashboardStats is the headline card data on the dashboard.
type DashboardStats struct {
	AssistantCount    int64 `json:"assistant_count"`
	TotalInteractions int64 `json:"total_interactions"`
	Tokens            int64 `json:"tokens"`
}

// ConversationStats aggregates a user's conversations for the responses view.
type ConversationStats struct {
	TotalResponses  int64 `json:"total_responses"`
	CompletionRate  int64 `json:"completion_rate"`
	AvgMessages     int64 `json:"avg_messages"`
	UniqueUsers     int64 `json:"unique_users"`
	TotalTokensUsed int64 `json:"total_tokens_used"`
}

// UsageMetric reports current consumption against a plan limit. Limit -1
// means unlimited.
type UsageMetric struct {
	Current    int64 `json:"current"`
	Limit      int64 `json:"limit"`
	Percentage int64 `json:"percentage"`
}

type TokenUsageMetric struct {
	Current int64 `json:"current"`
	Used    int64 `json:"used"`
	Limit   int64 `json:"limit"`
}

// ConversationResponse is the formatted responses-view row.
type ConversationResponse struct {
	ID           string            `json:"id"`
	Assistant    string            `json:"assistant"`
	User         string            `json:"user"`
	Timestamp    string            `json:"timestamp"`
	Type         AssistantType     `json:"type"`
	Status       string            `json:"status"`
	Messages     int               `json:"messages"`
	TokensUsed   int64             `json:"tokens_used"`
	Summary      string            `json:"summary"`
	Conversation []ResponseMessage `json:"full_conversation"`
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Tokens  int64  `json:"tokens"`
}

// RecentAssistant is a dashboard activity row.
type RecentAssistant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         AssistantType   `json:"type"`
	Status       AssistantStatus `json:"status"`
	Interactions int64           `json:"interactions"`
	LastActive   string          `json:"last_active"`
}

type UsageReport struct {
	Assistants   UsageMetric      `json:"assistants"`
	Interactions UsageMetric      `json:"interactions"`
	TeamMembers  UsageMetric      `json:"team_members"`
	Tokens       TokenUsageMetric `json:"tokens"`
	Plan         UserPlan         `json:"plan"`
}
