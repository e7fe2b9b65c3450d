package service

import (
	"time"

	"github.com/centime-app/centime-backend/internal/csv"
	"github.com/centime-app/centime-backend/internal/domain"
)

// ImportService runs the CSV import workflow: preview with auto-mapping,
// then the actual import under a user-confirmed mapping.
type ImportService struct {
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewImportService creates a new ImportService
func NewImportService(transactionRepo domain.TransactionRepository) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// Preview describes a parsed file before import: its headers, the suggested
// mapping and how many rows would be imported versus skipped as income.
type Preview struct {
	Headers  []string      `json:"headers"`
	Mapping  map[string]int `json:"mapping"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
}

// PreviewImport parses the file, auto-maps its header and counts the rows
// the current mapping would keep. Nothing is persisted.
func (s *ImportService) PreviewImport(content string, override map[string]int) (*Preview, error) {
	doc, err := csv.Parse(content)
	if err != nil {
		return nil, err
	}

	mapping := buildMapping(doc.Headers, override)

	preview := &Preview{
		Headers: doc.Headers,
		Mapping: mappingToMap(mapping),
	}

	if mapping.Complete() {
		result, err := csv.Import(doc, mapping, s.now())
		if err != nil {
			return nil, err
		}
		preview.Imported = result.Imported
		preview.Skipped = result.Skipped
	}

	return preview, nil
}

// Import parses the file and persists the expense rows under the mapping.
// The whole batch is aborted before any state change on a validation error.
func (s *ImportService) Import(content string, override map[string]int) (*csv.Result, error) {
	doc, err := csv.Parse(content)
	if err != nil {
		return nil, err
	}

	mapping := buildMapping(doc.Headers, override)
	if !mapping.Complete() {
		return nil, domain.ErrIncompleteMapping
	}

	result, err := csv.Import(doc, mapping, s.now())
	if err != nil {
		return nil, err
	}

	if len(result.Transactions) > 0 {
		if err := s.transactionRepo.CreateBatch(result.Transactions); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// buildMapping starts from the auto-suggestion and applies user overrides.
// An override of -1 unassigns the field.
func buildMapping(headers []string, override map[string]int) *csv.Mapping {
	mapping := csv.AutoMap(headers)
	for field, column := range override {
		if column < 0 {
			mapping.Unassign(csv.Field(field))
			continue
		}
		mapping.Assign(csv.Field(field), column)
	}
	return mapping
}

func mappingToMap(mapping *csv.Mapping) map[string]int {
	out := make(map[string]int)
	for _, field := range []csv.Field{csv.FieldDescription, csv.FieldCategory, csv.FieldAmount, csv.FieldDate} {
		if col, ok := mapping.Column(field); ok {
			out[string(field)] = col
		}
	}
	return out
}
