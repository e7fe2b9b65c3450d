// Package csv implements bank-export import: naive line splitting with
// per-line separator detection, header auto-mapping and the row-to-transaction
// transformation. Quoted fields containing the separator are not handled
// beyond stripping a single pair of surrounding quotes; this is a known
// limitation of the format as produced by the supported banks.
package csv

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/util"
)

// Document is a parsed CSV file: the header row plus the raw data rows.
type Document struct {
	Headers []string
	Rows    [][]string
}

// Parse splits raw CSV content into header and data rows. Each line picks
// its own separator: ';' when present, ',' otherwise. Cells lose a single
// pair of surrounding double quotes. An input with no non-blank lines is
// rejected with domain.ErrEmptyCSV.
func Parse(content string) (*Document, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCSV
	}

	doc := &Document{Headers: splitLine(lines[0])}
	for _, line := range lines[1:] {
		doc.Rows = append(doc.Rows, splitLine(line))
	}
	return doc, nil
}

func splitLine(line string) []string {
	sep := ","
	if strings.Contains(line, ";") {
		sep = ";"
	}
	cells := strings.Split(line, sep)
	for i, cell := range cells {
		cells[i] = stripQuotes(strings.TrimSpace(cell))
	}
	return cells
}

func stripQuotes(cell string) string {
	if len(cell) >= 2 && strings.HasPrefix(cell, `"`) && strings.HasSuffix(cell, `"`) {
		return cell[1 : len(cell)-1]
	}
	return cell
}

// Result carries the imported transactions plus the preview counts.
type Result struct {
	Transactions []*domain.Transaction `json:"transactions"`
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
}

// Import transforms mapped rows into expense transactions. Only rows whose
// raw signed amount is negative are kept; the stored amount is the absolute
// value. Blank descriptions and categories fall back to placeholders. IDs are
// clock-based with a per-row offset so a batch never collides internally.
func Import(doc *Document, mapping *Mapping, now time.Time) (*Result, error) {
	if !mapping.Complete() {
		return nil, domain.ErrIncompleteMapping
	}

	result := &Result{}
	base := now.UnixMilli()

	for i, row := range doc.Rows {
		rawAmount := cellAt(row, mapping, FieldAmount)
		if rawAmount == "" {
			rawAmount = "0"
		}
		amount := util.NormalizeAmount(rawAmount)
		if amount >= 0 {
			result.Skipped++
			continue
		}

		description := cellAt(row, mapping, FieldDescription)
		if description == "" {
			description = "Sans description"
		}
		category := cellAt(row, mapping, FieldCategory)
		if category == "" {
			category = "Autre"
		}

		result.Transactions = append(result.Transactions, &domain.Transaction{
			ID:          base + int64(i),
			Description: description,
			Category:    category,
			Amount:      decimal.NewFromFloat(amount).Abs(),
			Date:        util.NormalizeDateAt(cellAt(row, mapping, FieldDate), now),
			Type:        domain.TransactionTypeExpense,
			Recurring:   false,
		})
		result.Imported++
	}

	return result, nil
}

func cellAt(row []string, mapping *Mapping, field Field) string {
	col, ok := mapping.Column(field)
	if !ok || col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
