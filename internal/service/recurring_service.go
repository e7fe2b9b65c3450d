package service

import (
	"time"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/recurrence"
)

// RecurringService expands recurring templates into stored occurrences
type RecurringService struct {
	transactionRepo domain.TransactionRepository
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(transactionRepo domain.TransactionRepository) *RecurringService {
	return &RecurringService{transactionRepo: transactionRepo}
}

// ExpandInput holds the parameters of one expansion request. Frequency and
// end default to the template's own recurrence settings when omitted.
type ExpandInput struct {
	TemplateID int64
	Start      string
	End        *string
	Frequency  *domain.RecurrenceFrequency
}

// Expand generates and persists the occurrences of a recurring template over
// a date range. Occurrence ids continue from the template id, shifted past
// the collection's current maximum so they stay globally unique.
func (s *RecurringService) Expand(input ExpandInput) ([]*domain.Transaction, error) {
	template, err := s.transactionRepo.GetByID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.Recurring {
		return nil, domain.ErrNotRecurringTemplate
	}

	frequency := domain.RecurrenceMonthly
	if template.RecurrenceFrequency != nil {
		frequency = *template.RecurrenceFrequency
	}
	if input.Frequency != nil {
		frequency = *input.Frequency
	}
	if !frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	start, err := time.Parse("2006-01-02", input.Start)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	endStr := ""
	if input.End != nil {
		endStr = *input.End
	} else if template.RecurrenceEndDate != nil {
		endStr = *template.RecurrenceEndDate
	}
	if endStr == "" {
		return nil, domain.ErrInvalidDate
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	occurrences := recurrence.Generate(template, start, end, frequency)
	if len(occurrences) == 0 {
		return []*domain.Transaction{}, nil
	}

	maxID, err := s.transactionRepo.MaxID()
	if err != nil {
		return nil, err
	}
	if maxID > template.ID {
		// The template is not the newest record; shift the sequential ids
		// past the current maximum to keep them unique.
		offset := maxID - template.ID
		for _, occ := range occurrences {
			occ.ID += offset
		}
	}

	if err := s.transactionRepo.CreateBatch(occurrences); err != nil {
		return nil, err
	}
	return occurrences, nil
}
