package service

import (
	"errors"
	"testing"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/testutil"
)

const sampleCSV = "Description;Montant;Date\nLoyer;-800,00;01/03/2025\nSalaire;2000,00;01/03/2025\nCourses;-45,50;02/03/2025"

func TestPreviewImport(t *testing.T) {
	svc := NewImportService(testutil.NewMockTransactionRepository())

	preview, err := svc.PreviewImport(sampleCSV, nil)
	if err != nil {
		t.Fatalf("PreviewImport returned error: %v", err)
	}
	if preview.Imported != 2 || preview.Skipped != 1 {
		t.Errorf("counts = %d imported, %d skipped; want 2, 1", preview.Imported, preview.Skipped)
	}
	if preview.Mapping["description"] != 0 || preview.Mapping["amount"] != 1 || preview.Mapping["date"] != 2 {
		t.Errorf("mapping = %v, want description/amount/date on 0/1/2", preview.Mapping)
	}
}

func TestPreviewImportEmptyFile(t *testing.T) {
	svc := NewImportService(testutil.NewMockTransactionRepository())
	if _, err := svc.PreviewImport("", nil); !errors.Is(err, domain.ErrEmptyCSV) {
		t.Errorf("error = %v, want ErrEmptyCSV", err)
	}
}

func TestImportPersistsBatch(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewImportService(repo)

	result, err := svc.Import(sampleCSV, nil)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
	if len(repo.Transactions) != 2 {
		t.Errorf("stored %d transactions, want 2", len(repo.Transactions))
	}
}

func TestImportAbortsOnIncompleteMapping(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewImportService(repo)

	// Unassign the date column; import must abort before any state change.
	_, err := svc.Import(sampleCSV, map[string]int{"date": -1})
	if !errors.Is(err, domain.ErrIncompleteMapping) {
		t.Fatalf("error = %v, want ErrIncompleteMapping", err)
	}
	if len(repo.Transactions) != 0 {
		t.Errorf("stored %d transactions, want 0 after abort", len(repo.Transactions))
	}
}

func TestImportMappingOverride(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	svc := NewImportService(repo)

	// Headers give no auto-match; assign everything by hand.
	content := "c0;c1;c2\nLoyer;-800,00;01/03/2025"
	result, err := svc.Import(content, map[string]int{"description": 0, "amount": 1, "date": 2})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("imported = %d, want 1", result.Imported)
	}
}
