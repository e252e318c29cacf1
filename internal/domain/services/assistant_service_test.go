package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
)

func newAssistantFixture(balance int64) (AssistantService, *fakeAssistantRepo, *fakeLedgerRepo) {
	repo := newFakeAssistantRepo()
	ledgerRepo := newFakeLedgerRepo()
	ledgerRepo.balances[1] = balance
	ledger := NewLedgerService(ledgerRepo, testLogger())
	return NewAssistantService(repo, ledger, testLogger()), repo, ledgerRepo
}

func sampleCreateRequest() *CreateAssistantRequest {
	return &CreateAssistantRequest{
		Name:           "Support Bot",
		Type:           models.AssistantFeedback,
		Instructions:   strings.Repeat("a", 400), // 100 tokens
		WelcomeMessage: strings.Repeat("b", 80),  // with instructions: 120 tokens
		DeliveryMethod: models.DeliveryWidget,
	}
}

func TestCreateAssistant(t *testing.T) {
	svc, repo, ledger := newAssistantFixture(5000)

	assistant, err := svc.Create(context.Background(), 1, sampleCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 120 instruction tokens + 100 base cost.
	if balance := ledger.balances[1]; balance != 4780 {
		t.Errorf("balance: got %d, want 4780", balance)
	}
	entries := ledger.entriesFor(1)
	if len(entries) != 1 || entries[0].Tokens != 220 || entries[0].Operation != models.OpCreateAssistant {
		t.Errorf("ledger entries: got %+v", entries)
	}

	if assistant.Status != models.AssistantActive {
		t.Errorf("status: got %s, want ACTIVE", assistant.Status)
	}
	if assistant.Tone != "professional" || assistant.ResponseLength != "medium" {
		t.Errorf("defaults: tone %q length %q", assistant.Tone, assistant.ResponseLength)
	}
	if assistant.TokensUsed != 120 {
		t.Errorf("tokens_used: got %d, want instruction cost 120", assistant.TokensUsed)
	}
	if _, err := repo.GetByID(context.Background(), assistant.ID); err != nil {
		t.Errorf("assistant not persisted: %v", err)
	}
}

func TestCreateAssistantInsufficientTokens(t *testing.T) {
	svc, repo, ledger := newAssistantFixture(100)

	_, err := svc.Create(context.Background(), 1, sampleCreateRequest())
	if !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("Create: got %v, want %v", err, ErrInsufficientTokens)
	}

	// The failed deduction must leave no assistant and an untouched balance.
	if n, _ := repo.CountByUser(context.Background(), 1); n != 0 {
		t.Errorf("assistants persisted: %d", n)
	}
	if balance := ledger.balances[1]; balance != 100 {
		t.Errorf("balance: got %d, want 100", balance)
	}
}

func TestDuplicateAssistant(t *testing.T) {
	svc, repo, ledger := newAssistantFixture(5000)

	original, err := svc.Create(context.Background(), 1, sampleCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	copy, err := svc.Duplicate(context.Background(), 1, original.ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	if copy.Name != "Support Bot (Copy)" {
		t.Errorf("copy name: got %q", copy.Name)
	}
	if copy.Status != models.AssistantDraft {
		t.Errorf("copy status: got %s, want DRAFT", copy.Status)
	}
	if copy.Instructions != original.Instructions {
		t.Error("copy instructions differ from original")
	}

	// Create and duplicate each cost 220.
	if balance := ledger.balances[1]; balance != 4560 {
		t.Errorf("balance: got %d, want 4560", balance)
	}
	entries := ledger.entriesFor(1)
	if len(entries) != 2 {
		t.Fatalf("ledger entries: got %d, want 2", len(entries))
	}
	dup := entries[1]
	if dup.Operation != models.OpDuplicateAssistant || dup.Tokens != 220 {
		t.Errorf("duplicate entry: got %+v", dup)
	}
	if dup.AssistantID == nil || *dup.AssistantID != original.ID {
		t.Errorf("duplicate entry should reference source assistant, got %v", dup.AssistantID)
	}

	if n, _ := repo.CountByUser(context.Background(), 1); n != 2 {
		t.Errorf("assistants: got %d, want 2", n)
	}
}

func TestDuplicateRejectsForeignAssistant(t *testing.T) {
	svc, _, ledger := newAssistantFixture(5000)

	original, err := svc.Create(context.Background(), 1, sampleCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ledger.balances[2] = 5000
	if _, err := svc.Duplicate(context.Background(), 2, original.ID); err == nil {
		t.Fatal("Duplicate: expected ownership error")
	}
	if balance := ledger.balances[2]; balance != 5000 {
		t.Errorf("stranger's balance changed: %d", balance)
	}
}
