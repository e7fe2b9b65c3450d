// Package recurrence expands a recurring transaction template into dated
// occurrences over a closed date range.
package recurrence

import (
	"time"

	"github.com/centime-app/centime-backend/internal/domain"
)

// Generate produces one occurrence per step from start to end, both bounds
// inclusive. Each occurrence copies the template except for its id (sequential
// from template.ID+1), its date, IsGenerated and ParentID. A start after end
// yields an empty sequence. Monthly steps follow calendar overflow rules, so
// Jan 31 + 1 month lands on Mar 2 or 3 rather than clamping.
func Generate(template *domain.Transaction, start, end time.Time, frequency domain.RecurrenceFrequency) []*domain.Transaction {
	var occurrences []*domain.Transaction

	nextID := template.ID + 1
	parentID := template.ID

	for current := start; !current.After(end); current = advance(current, frequency) {
		occurrence := *template
		occurrence.ID = nextID
		occurrence.Date = current.Format("2006-01-02")
		occurrence.IsGenerated = true
		occurrence.ParentID = &parentID

		occurrences = append(occurrences, &occurrence)
		nextID++
	}

	return occurrences
}

func advance(date time.Time, frequency domain.RecurrenceFrequency) time.Time {
	switch frequency {
	case domain.RecurrenceWeekly:
		return date.AddDate(0, 0, 7)
	case domain.RecurrenceYearly:
		return date.AddDate(1, 0, 0)
	default:
		return date.AddDate(0, 1, 0)
	}
}

// NextID returns the first id not used by any transaction in the collection.
func NextID(transactions []*domain.Transaction) int64 {
	var max int64
	for _, tx := range transactions {
		if tx.ID > max {
			max = tx.ID
		}
	}
	return max + 1
}
