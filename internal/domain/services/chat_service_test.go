package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/ai"
)

type fakeAssistantRepo struct {
	assistants map[uuid.UUID]*models.Assistant
}

func newFakeAssistantRepo() *fakeAssistantRepo {
	return &fakeAssistantRepo{assistants: make(map[uuid.UUID]*models.Assistant)}
}

func (f *fakeAssistantRepo) Create(_ context.Context, assistant *models.Assistant) error {
	if assistant.ID == uuid.Nil {
		assistant.ID = uuid.New()
	}
	copied := *assistant
	f.assistants[assistant.ID] = &copied
	return nil
}

func (f *fakeAssistantRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Assistant, error) {
	assistant, ok := f.assistants[id]
	if !ok {
		return nil, errors.New("assistant not found")
	}
	copied := *assistant
	return &copied, nil
}

func (f *fakeAssistantRepo) ListByUser(_ context.Context, userID int64) ([]models.Assistant, error) {
	var out []models.Assistant
	for _, a := range f.assistants {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssistantRepo) RecentByUser(_ context.Context, userID int64, limit int) ([]models.Assistant, error) {
	all, _ := f.ListByUser(context.Background(), userID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeAssistantRepo) UpdateStatus(_ context.Context, id uuid.UUID, userID int64, status models.AssistantStatus) error {
	a, ok := f.assistants[id]
	if !ok || a.UserID != userID {
		return errors.New("assistant not found")
	}
	a.Status = status
	return nil
}

func (f *fakeAssistantRepo) Delete(_ context.Context, id uuid.UUID, userID int64) error {
	a, ok := f.assistants[id]
	if !ok || a.UserID != userID {
		return errors.New("assistant not found")
	}
	delete(f.assistants, id)
	return nil
}

func (f *fakeAssistantRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, a := range f.assistants {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssistantRepo) SumInteractionsByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, a := range f.assistants {
		if a.UserID == userID {
			n += a.Interactions
		}
	}
	return n, nil
}

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*models.Conversation
	messages      map[uuid.UUID][]models.Message
	assistants    *fakeAssistantRepo
}

func newFakeConversationRepo(assistants *fakeAssistantRepo) *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[uuid.UUID]*models.Conversation),
		messages:      make(map[uuid.UUID][]models.Message),
		assistants:    assistants,
	}
}

func (f *fakeConversationRepo) Create(_ context.Context, conversation *models.Conversation) error {
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	copied := *conversation
	f.conversations[conversation.ID] = &copied
	return nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, errors.New("conversation not found")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeConversationRepo) ListByUser(_ context.Context, userID int64) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) UpdateStatus(_ context.Context, id uuid.UUID, userID int64, status models.ConversationStatus) error {
	c, ok := f.conversations[id]
	if !ok || c.UserID != userID {
		return errors.New("conversation not found")
	}
	c.Status = status
	return nil
}

func (f *fakeConversationRepo) AddMessage(_ context.Context, message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.messages[message.ConversationID] = append(f.messages[message.ConversationID], *message)
	return nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeConversationRepo) RecordUsage(_ context.Context, conversationID uuid.UUID, assistantID uuid.UUID, tokens int64) error {
	c, ok := f.conversations[conversationID]
	if !ok {
		return errors.New("conversation not found")
	}
	c.TokensUsed += tokens
	if a, ok := f.assistants.assistants[assistantID]; ok {
		a.Interactions++
		a.TokensUsed += tokens
	}
	return nil
}

func (f *fakeConversationRepo) Stats(_ context.Context, _ int64) (*models.ConversationStats, error) {
	return &models.ConversationStats{}, nil
}

type stubProvider struct {
	result *ai.Result
	err    error
	calls  int
}

func (p *stubProvider) Generate(_ context.Context, _ string, _ []ai.Turn, _ string) (*ai.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type chatFixture struct {
	svc           ChatService
	assistants    *fakeAssistantRepo
	conversations *fakeConversationRepo
	ledger        *fakeLedgerRepo
	provider      *stubProvider
	assistant     *models.Assistant
}

func newChatFixture(t *testing.T, balance int64, provider *stubProvider) *chatFixture {
	t.Helper()

	assistants := newFakeAssistantRepo()
	conversations := newFakeConversationRepo(assistants)
	ledgerRepo := newFakeLedgerRepo()
	ledgerRepo.balances[1] = balance

	assistant := &models.Assistant{
		UserID:         1,
		Name:           "Sales Bot",
		Type:           models.AssistantSales,
		Instructions:   "Sell the product.",
		WelcomeMessage: "Hi! How can I help?",
		Tone:           "professional",
		ResponseLength: "medium",
		Status:         models.AssistantActive,
	}
	if err := assistants.Create(context.Background(), assistant); err != nil {
		t.Fatalf("seed assistant: %v", err)
	}

	ledger := NewLedgerService(ledgerRepo, testLogger())
	svc := NewChatService(conversations, assistants, ledger, provider, testLogger())

	return &chatFixture{
		svc:           svc,
		assistants:    assistants,
		conversations: conversations,
		ledger:        ledgerRepo,
		provider:      provider,
		assistant:     assistant,
	}
}

func (f *chatFixture) startConversation(t *testing.T) uuid.UUID {
	t.Helper()
	detail, err := f.svc.StartConversation(context.Background(), f.assistant.ID, nil)
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	return detail.Conversation.ID
}

func TestStartConversation(t *testing.T) {
	fx := newChatFixture(t, 5000, &stubProvider{})

	email := "visitor@example.com"
	detail, err := fx.svc.StartConversation(context.Background(), fx.assistant.ID, &email)
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	if detail.Conversation.UserID != fx.assistant.UserID {
		t.Errorf("conversation owner: got %d, want assistant owner %d", detail.Conversation.UserID, fx.assistant.UserID)
	}
	if len(detail.Messages) != 1 {
		t.Fatalf("messages: got %d, want welcome message only", len(detail.Messages))
	}
	welcome := detail.Messages[0]
	if welcome.Role != models.RoleAssistant || welcome.Content != fx.assistant.WelcomeMessage {
		t.Errorf("welcome message: got %s %q", welcome.Role, welcome.Content)
	}
	if welcome.Tokens != 0 {
		t.Errorf("welcome message cost: got %d, want 0", welcome.Tokens)
	}
}

func TestStartConversationRejectsInactiveAssistant(t *testing.T) {
	fx := newChatFixture(t, 5000, &stubProvider{})
	fx.assistants.assistants[fx.assistant.ID].Status = models.AssistantDraft

	if _, err := fx.svc.StartConversation(context.Background(), fx.assistant.ID, nil); err == nil {
		t.Fatal("StartConversation: expected error for draft assistant")
	}
}

func TestSendMessage(t *testing.T) {
	provider := &stubProvider{result: &ai.Result{Text: "Our plans start at $10.", TokensUsed: 120}}
	fx := newChatFixture(t, 5000, provider)
	conversationID := fx.startConversation(t)

	result, err := fx.svc.SendMessage(context.Background(), conversationID, "How much does it cost?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if result.InsufficientTokens {
		t.Fatal("unexpected insufficient tokens")
	}
	if result.TokensUsed != 120 {
		t.Errorf("turn cost: got %d, want 120", result.TokensUsed)
	}
	if result.Message.Content != "Our plans start at $10." {
		t.Errorf("answer: got %q", result.Message.Content)
	}

	if balance := fx.ledger.balances[1]; balance != 4880 {
		t.Errorf("balance: got %d, want 4880", balance)
	}
	entries := fx.ledger.entriesFor(1)
	if len(entries) != 1 || entries[0].Tokens != 120 || entries[0].Operation != models.OpChatMessage {
		t.Errorf("ledger entries: got %+v", entries)
	}

	// Welcome + user question + answer.
	messages, _ := fx.conversations.ListMessages(context.Background(), conversationID)
	if len(messages) != 3 {
		t.Fatalf("messages: got %d, want 3", len(messages))
	}
	if messages[1].Role != models.RoleUser || messages[1].Tokens != 0 {
		t.Errorf("user message: role %s tokens %d", messages[1].Role, messages[1].Tokens)
	}
	if messages[2].Tokens != 120 {
		t.Errorf("answer tokens: got %d, want 120", messages[2].Tokens)
	}

	conversation, _ := fx.conversations.GetByID(context.Background(), conversationID)
	if conversation.TokensUsed != 120 {
		t.Errorf("conversation tokens_used: got %d, want 120", conversation.TokensUsed)
	}
	owner := fx.assistants.assistants[fx.assistant.ID]
	if owner.Interactions != 1 || owner.TokensUsed != 120 {
		t.Errorf("assistant counters: interactions %d tokens %d, want 1 and 120", owner.Interactions, owner.TokensUsed)
	}
}

func TestSendMessageInsufficientTokens(t *testing.T) {
	provider := &stubProvider{result: &ai.Result{Text: "long answer", TokensUsed: 200}}
	fx := newChatFixture(t, 50, provider)
	conversationID := fx.startConversation(t)

	result, err := fx.svc.SendMessage(context.Background(), conversationID, "hello?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if !result.InsufficientTokens {
		t.Fatal("expected InsufficientTokens result")
	}
	if !strings.Contains(result.Message.Content, "run out of tokens") {
		t.Errorf("apology text: got %q", result.Message.Content)
	}
	if result.Message.Role != models.RoleAssistant || result.Message.Tokens != 0 {
		t.Errorf("apology message: role %s tokens %d", result.Message.Role, result.Message.Tokens)
	}

	// Nothing was charged and no counters moved.
	if balance := fx.ledger.balances[1]; balance != 50 {
		t.Errorf("balance: got %d, want 50 untouched", balance)
	}
	if got := len(fx.ledger.entriesFor(1)); got != 0 {
		t.Errorf("ledger entries: got %d, want 0", got)
	}
	owner := fx.assistants.assistants[fx.assistant.ID]
	if owner.Interactions != 0 || owner.TokensUsed != 0 {
		t.Errorf("assistant counters moved: interactions %d tokens %d", owner.Interactions, owner.TokensUsed)
	}

	// The inbound question and the apology are both persisted.
	messages, _ := fx.conversations.ListMessages(context.Background(), conversationID)
	if len(messages) != 3 {
		t.Fatalf("messages: got %d, want 3", len(messages))
	}
}

func TestSendMessageProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	fx := newChatFixture(t, 5000, provider)
	conversationID := fx.startConversation(t)

	_, err := fx.svc.SendMessage(context.Background(), conversationID, "hello?")
	if !errors.Is(err, ErrAIProvider) {
		t.Fatalf("SendMessage: got %v, want %v", err, ErrAIProvider)
	}

	// No charge for a failed call; the inbound message stays persisted.
	if balance := fx.ledger.balances[1]; balance != 5000 {
		t.Errorf("balance: got %d, want 5000", balance)
	}
	messages, _ := fx.conversations.ListMessages(context.Background(), conversationID)
	if len(messages) != 2 {
		t.Fatalf("messages: got %d, want welcome + user message", len(messages))
	}
	if messages[1].Role != models.RoleUser {
		t.Errorf("persisted message role: got %s, want USER", messages[1].Role)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	provider := &stubProvider{result: &ai.Result{Text: "x", TokensUsed: 1}}
	fx := newChatFixture(t, 5000, provider)
	conversationID := fx.startConversation(t)

	if _, err := fx.svc.SendMessage(context.Background(), conversationID, "   "); err == nil {
		t.Fatal("SendMessage: expected error for blank content")
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for blank message", provider.calls)
	}
}

func TestSystemPrompt(t *testing.T) {
	tests := []struct {
		name           string
		responseLength string
		wantPhrase     string
	}{
		{"short", "short", "Keep responses brief and concise"},
		{"detailed", "detailed", "Provide detailed and comprehensive responses"},
		{"default", "medium", "Provide moderate length responses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assistant := &models.Assistant{
				Type:           models.AssistantFeedback,
				Instructions:   "Collect opinions.",
				Tone:           "friendly",
				ResponseLength: tt.responseLength,
			}

			prompt := systemPrompt(assistant)
			if !strings.Contains(prompt, tt.wantPhrase) {
				t.Errorf("prompt missing %q:\n%s", tt.wantPhrase, prompt)
			}
			if !strings.Contains(prompt, "feedback purposes") {
				t.Errorf("prompt missing lowercased type:\n%s", prompt)
			}
			if !strings.Contains(prompt, "Collect opinions.") {
				t.Errorf("prompt missing instructions:\n%s", prompt)
			}
		})
	}
}
