package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/testutil"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockSettingsRepository) {
	txRepo := testutil.NewMockTransactionRepository()
	settingsRepo := testutil.NewMockSettingsRepository()
	return NewTransactionService(txRepo, settingsRepo), txRepo, settingsRepo
}

func validInput() TransactionInput {
	return TransactionInput{
		Description: "Courses",
		Category:    "Alimentation",
		Amount:      decimal.NewFromFloat(45.5),
		Date:        "2025-03-01",
		Type:        domain.TransactionTypeExpense,
	}
}

func TestCreateTransaction(t *testing.T) {
	svc, repo, _ := newTransactionService()

	tx, err := svc.CreateTransaction(validInput())
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.ID != 1 {
		t.Errorf("id = %d, want 1 on empty collection", tx.ID)
	}
	if len(repo.Transactions) != 1 {
		t.Errorf("stored %d transactions, want 1", len(repo.Transactions))
	}
}

func TestCreateTransactionAssignsNextID(t *testing.T) {
	svc, repo, _ := newTransactionService()
	repo.AddTransaction(&domain.Transaction{ID: 41, Description: "x", Category: "Autre", Amount: decimal.NewFromInt(1), Date: "2025-01-01", Type: domain.TransactionTypeExpense})

	tx, err := svc.CreateTransaction(validInput())
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.ID != 42 {
		t.Errorf("id = %d, want 42", tx.ID)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc, _, _ := newTransactionService()

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr error
	}{
		{"empty description", func(in *TransactionInput) { in.Description = "  " }, domain.ErrDescriptionRequired},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, domain.ErrNegativeAmount},
		{"bad type", func(in *TransactionInput) { in.Type = "transfer" }, domain.ErrInvalidType},
		{"bad frequency", func(in *TransactionInput) {
			f := domain.RecurrenceFrequency("daily")
			in.RecurrenceFrequency = &f
		}, domain.ErrInvalidFrequency},
		{"impossible date", func(in *TransactionInput) { in.Date = "2025-13-45" }, domain.ErrInvalidDate},
	}
	for _, tt := range tests {
		input := validInput()
		tt.mutate(&input)
		if _, err := svc.CreateTransaction(input); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestCreateTransactionNormalizesDate(t *testing.T) {
	svc, _, _ := newTransactionService()
	input := validInput()
	input.Date = "01/03/2025"

	tx, err := svc.CreateTransaction(input)
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Date != "2025-03-01" {
		t.Errorf("date = %q, want normalized 2025-03-01", tx.Date)
	}
}

func TestCreateTransactionDefaultsCategory(t *testing.T) {
	svc, _, _ := newTransactionService()
	input := validInput()
	input.Category = ""

	tx, err := svc.CreateTransaction(input)
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if tx.Category != "Autre" {
		t.Errorf("category = %q, want Autre", tx.Category)
	}
}

func TestUpdateTransactionPreservesProvenance(t *testing.T) {
	svc, repo, _ := newTransactionService()
	parentID := int64(7)
	repo.AddTransaction(&domain.Transaction{
		ID: 10, Description: "Netflix", Category: "Abonnements",
		Amount: decimal.NewFromFloat(13.99), Date: "2025-02-01",
		Type: domain.TransactionTypeExpense, IsGenerated: true, ParentID: &parentID,
	})

	input := validInput()
	tx, err := svc.UpdateTransaction(10, input)
	if err != nil {
		t.Fatalf("UpdateTransaction returned error: %v", err)
	}
	if !tx.IsGenerated || tx.ParentID == nil || *tx.ParentID != 7 {
		t.Errorf("provenance fields lost on update: %+v", tx)
	}
	if tx.Description != "Courses" {
		t.Errorf("description = %q, want replaced", tx.Description)
	}
}

func TestUpdateTransactionNotFound(t *testing.T) {
	svc, _, _ := newTransactionService()
	if _, err := svc.UpdateTransaction(99, validInput()); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("error = %v, want ErrTransactionNotFound", err)
	}
}

func TestBulkSetCategory(t *testing.T) {
	svc, repo, _ := newTransactionService()
	for i := int64(1); i <= 3; i++ {
		repo.AddTransaction(&domain.Transaction{ID: i, Description: "x", Category: "Autre", Amount: decimal.NewFromInt(1), Date: "2025-01-01", Type: domain.TransactionTypeExpense})
	}

	updated, err := svc.BulkSetCategory([]int64{1, 3}, "Transport")
	if err != nil {
		t.Fatalf("BulkSetCategory returned error: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if repo.Transactions[2].Category != "Autre" {
		t.Error("unselected transaction was modified")
	}
}

func TestBulkSetRecurring(t *testing.T) {
	svc, repo, _ := newTransactionService()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "x", Category: "Autre", Amount: decimal.NewFromInt(1), Date: "2025-01-01", Type: domain.TransactionTypeExpense})

	updated, err := svc.BulkSetRecurring([]int64{1}, true)
	if err != nil {
		t.Fatalf("BulkSetRecurring returned error: %v", err)
	}
	if len(updated) != 1 || !updated[0].Recurring {
		t.Errorf("updated = %+v, want recurring set", updated)
	}
}

func TestBulkDelete(t *testing.T) {
	svc, repo, _ := newTransactionService()
	for i := int64(1); i <= 3; i++ {
		repo.AddTransaction(&domain.Transaction{ID: i, Description: "x", Category: "Autre", Amount: decimal.NewFromInt(1), Date: "2025-01-01", Type: domain.TransactionTypeExpense})
	}

	removed, err := svc.BulkDelete([]int64{1, 2, 99})
	if err != nil {
		t.Fatalf("BulkDelete returned error: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestSeedIfFirstRun(t *testing.T) {
	svc, repo, settings := newTransactionService()

	seeded, err := svc.SeedIfFirstRun()
	if err != nil {
		t.Fatalf("SeedIfFirstRun returned error: %v", err)
	}
	if !seeded {
		t.Fatal("expected first run to seed")
	}
	if len(repo.Transactions) != 4 {
		t.Errorf("seeded %d transactions, want 4", len(repo.Transactions))
	}
	if settings.Values[domain.SettingSeeded] != "true" {
		t.Error("seeded marker not written")
	}

	// Second run must be a no-op even after the user clears everything.
	for id := range repo.Transactions {
		delete(repo.Transactions, id)
	}
	seeded, err = svc.SeedIfFirstRun()
	if err != nil {
		t.Fatalf("SeedIfFirstRun returned error: %v", err)
	}
	if seeded || len(repo.Transactions) != 0 {
		t.Error("store was re-seeded after deliberate wipe")
	}
}

func TestSeedSkippedWhenDataExists(t *testing.T) {
	svc, repo, _ := newTransactionService()
	repo.AddTransaction(&domain.Transaction{ID: 1, Description: "x", Category: "Autre", Amount: decimal.NewFromInt(1), Date: "2025-01-01", Type: domain.TransactionTypeExpense})

	seeded, err := svc.SeedIfFirstRun()
	if err != nil {
		t.Fatalf("SeedIfFirstRun returned error: %v", err)
	}
	if seeded {
		t.Error("seeded over existing data")
	}
	if len(repo.Transactions) != 1 {
		t.Errorf("transactions = %d, want untouched 1", len(repo.Transactions))
	}
}
