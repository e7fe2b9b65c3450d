// Package receipt interprets the noisy text produced by OCR on a photographed
// till receipt. It does no recognition itself; it extracts merchant, date,
// total, line items and a guessed category from whatever text it is given.
// Every function is total over string input: anything unparseable degrades to
// a documented fallback instead of an error.
package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parsed is the structured reading of one receipt.
type Parsed struct {
	Merchant string          `json:"merchant"`
	Date     string          `json:"date"`
	Total    decimal.Decimal `json:"total"`
	Items    []Item          `json:"items"`
	Category string          `json:"category"`
}

// Item is one article line: the text before the amount, plus the amount.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

var (
	// amountPattern matches till amounts such as 12.50, 12,50 or 1234,00.
	amountPattern = regexp.MustCompile(`(\d{1,6})[,.](\d{2})`)

	// dayFirstPattern reads 04/12/2025, 04-12-25 or 04.12.2025 day-first.
	dayFirstPattern = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)

	// yearFirstPattern reads 2025-12-04.
	yearFirstPattern = regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`)
)

// knownMerchants are French retail chains commonly found at the top of a
// receipt. Substring match, case-insensitive, first five lines only.
var knownMerchants = []string{
	"CARREFOUR", "AUCHAN", "LECLERC", "INTERMARCHE", "CASINO",
	"MONOPRIX", "FRANPRIX", "LIDL", "ALDI", "SUPER U",
	"PICARD", "BIOCOOP", "NATURALIA", "SEPHORA", "DECATHLON",
	"FNAC", "DARTY", "IKEA", "LEROY MERLIN", "BRICORAMA",
}

// skipKeywords mark non-article lines (totals, payment, politeness).
var skipKeywords = []string{
	"TOTAL", "SOUS-TOTAL", "TVA", "CARTE", "CB", "ESPECES",
	"RENDU", "TICKET", "MERCI", "BONNE JOURNEE",
}

// totalKeywords mark the line carrying the amount due.
var totalKeywords = []string{"TOTAL", "MONTANT", "A PAYER", "APAYER", "SOMME"}

// categoryRules classify a receipt from its full text, first match wins.
var categoryRules = []struct {
	keywords []string
	label    string
}{
	{[]string{"CARREFOUR", "AUCHAN", "LECLERC", "INTERMARCHE", "CASINO", "MONOPRIX", "FRANPRIX", "LIDL", "ALDI", "SUPER U", "PICARD"}, "Alimentation"},
	{[]string{"PHARMACIE", "SEPHORA", "YVES ROCHER", "MARIONNAUD"}, "Santé & Beauté"},
	{[]string{"DECATHLON", "GO SPORT", "INTERSPORT"}, "Sport & Loisirs"},
	{[]string{"LEROY MERLIN", "BRICORAMA", "BRICO DEPOT", "CASTORAMA"}, "Bricolage & Maison"},
	{[]string{"FNAC", "DARTY", "BOULANGER", "APPLE STORE"}, "High-Tech"},
	{[]string{"RESTAURANT", "CAFE", "BAR", "BRASSERIE", "PIZZERIA"}, "Restaurants"},
}

const (
	fallbackMerchant = "Commerçant inconnu"
	fallbackCategory = "Divers"

	// maxPlausibleTotal rejects OCR artifacts during the max-amount pass.
	maxPlausibleTotal = 10000

	// maxItemAmount bounds a single article line.
	maxItemAmount = 1000
)

// Parse interprets raw OCR text.
func Parse(text string) *Parsed {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit clock for the date fallback.
func ParseAt(text string, now time.Time) *Parsed {
	lines := splitLines(text)
	return &Parsed{
		Merchant: extractMerchant(lines),
		Date:     extractDateLines(lines, now),
		Total:    extractTotal(lines),
		Items:    extractItems(lines),
		Category: guessCategory(lines),
	}
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func extractMerchant(lines []string) string {
	top := lines
	if len(top) > 5 {
		top = top[:5]
	}
	for _, line := range top {
		upper := strings.ToUpper(line)
		for _, merchant := range knownMerchants {
			if strings.Contains(upper, merchant) {
				return merchant
			}
		}
	}
	if len(top) > 0 {
		return top[0]
	}
	return fallbackMerchant
}

func extractDateLines(lines []string, now time.Time) string {
	for _, line := range lines {
		if date, ok := dateFromLine(line); ok {
			return date
		}
	}
	return now.Format("2006-01-02")
}

func dateFromLine(line string) (string, bool) {
	if m := dayFirstPattern.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if validDayMonth(day, month) {
			return fmt.Sprintf("%d-%02d-%02d", year, month, day), true
		}
	}
	if m := yearFirstPattern.FindStringSubmatch(line); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validDayMonth(day, month) {
			return fmt.Sprintf("%d-%02d-%02d", year, month, day), true
		}
	}
	return "", false
}

func validDayMonth(day, month int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func extractTotal(lines []string) decimal.Decimal {
	// First pass: a keyword line carrying an amount wins, top to bottom.
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if !containsAny(upper, totalKeywords) {
			continue
		}
		if amount, ok := amountFromLine(line); ok {
			return amount
		}
	}

	// Second pass: highest plausible amount anywhere in the text.
	best := decimal.Zero
	limit := decimal.NewFromInt(maxPlausibleTotal)
	for _, line := range lines {
		amount, ok := amountFromLine(line)
		if ok && amount.GreaterThan(best) && amount.LessThan(limit) {
			best = amount
		}
	}
	return best
}

func extractItems(lines []string) []Item {
	var items []Item
	upperBound := decimal.NewFromInt(maxItemAmount)
	for _, line := range lines {
		if containsAny(strings.ToUpper(line), skipKeywords) {
			continue
		}
		loc := amountPattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		amount := amountFromMatch(line, loc)
		description := strings.TrimSpace(line[:loc[0]])
		if description != "" && amount.IsPositive() && amount.LessThan(upperBound) {
			items = append(items, Item{Description: description, Amount: amount})
		}
	}
	return items
}

func guessCategory(lines []string) string {
	fullText := strings.ToUpper(strings.Join(lines, " "))
	for _, rule := range categoryRules {
		if containsAny(fullText, rule.keywords) {
			return rule.label
		}
	}
	return fallbackCategory
}

func containsAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func amountFromLine(line string) (decimal.Decimal, bool) {
	loc := amountPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return decimal.Zero, false
	}
	return amountFromMatch(line, loc), true
}

func amountFromMatch(line string, loc []int) decimal.Decimal {
	units := line[loc[2]:loc[3]]
	cents := line[loc[4]:loc[5]]
	amount, err := decimal.NewFromString(units + "." + cents)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ExtractAmount re-applies the amount heuristic to a single user-selected
// line, for the manual assist flow. Returns zero when no amount is present.
func ExtractAmount(line string) decimal.Decimal {
	amount, _ := amountFromLine(line)
	return amount
}

// ExtractDate re-applies the date heuristic to a single user-selected line,
// falling back to today when nothing validates.
func ExtractDate(line string, now time.Time) string {
	if date, ok := dateFromLine(line); ok {
		return date
	}
	return now.Format("2006-01-02")
}
