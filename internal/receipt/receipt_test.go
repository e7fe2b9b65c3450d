package receipt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var parseClock = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

const carrefourReceipt = `CARREFOUR MARKET
12 RUE DE LA PAIX
75002 PARIS
04/12/2025 14:32
LAIT DEMI-ECREME 1,15
PAIN DE MIE 2,30
YAOURTS X8 3,45
TOTAL 23,50
CB **** 1234
MERCI DE VOTRE VISITE`

func TestParseKnownMerchant(t *testing.T) {
	parsed := ParseAt(carrefourReceipt, parseClock)
	if parsed.Merchant != "CARREFOUR" {
		t.Errorf("merchant = %q, want CARREFOUR", parsed.Merchant)
	}
}

func TestParseMerchantFallbackFirstLine(t *testing.T) {
	parsed := ParseAt("CHEZ MARCEL\n04/12/2025\nTOTAL 12,00", parseClock)
	if parsed.Merchant != "CHEZ MARCEL" {
		t.Errorf("merchant = %q, want first line", parsed.Merchant)
	}
}

func TestParseMerchantEmptyText(t *testing.T) {
	parsed := ParseAt("", parseClock)
	if parsed.Merchant != "Commerçant inconnu" {
		t.Errorf("merchant = %q, want placeholder", parsed.Merchant)
	}
}

func TestParseMerchantOnlyScansTopLines(t *testing.T) {
	text := "ligne 1\nligne 2\nligne 3\nligne 4\nligne 5\nCARREFOUR"
	parsed := ParseAt(text, parseClock)
	if parsed.Merchant != "ligne 1" {
		t.Errorf("merchant = %q, known name below line 5 must not match", parsed.Merchant)
	}
}

func TestParseDateDayFirst(t *testing.T) {
	parsed := ParseAt(carrefourReceipt, parseClock)
	if parsed.Date != "2025-12-04" {
		t.Errorf("date = %q, want 2025-12-04", parsed.Date)
	}
}

func TestParseDateTwoDigitYear(t *testing.T) {
	parsed := ParseAt("TICKET\n04/12/25", parseClock)
	if parsed.Date != "2025-12-04" {
		t.Errorf("date = %q, want 2-digit year promoted to 2025", parsed.Date)
	}
}

func TestParseDateInvalidMonthSkipped(t *testing.T) {
	// 13 cannot be a month day-first or year-first; the next line wins.
	parsed := ParseAt("ref 01/13/2025\n05.07.2025", parseClock)
	if parsed.Date != "2025-07-05" {
		t.Errorf("date = %q, want 2025-07-05 from the second line", parsed.Date)
	}
}

func TestParseDateFallbackToday(t *testing.T) {
	parsed := ParseAt("AUCUNE DATE ICI", parseClock)
	if parsed.Date != "2025-06-15" {
		t.Errorf("date = %q, want clock fallback", parsed.Date)
	}
}

func TestParseTotalKeywordLine(t *testing.T) {
	parsed := ParseAt(carrefourReceipt, parseClock)
	if !parsed.Total.Equal(decimal.NewFromFloat(23.5)) {
		t.Errorf("total = %s, want 23.5", parsed.Total)
	}
}

func TestParseTotalMaxAmountFallback(t *testing.T) {
	parsed := ParseAt("ARTICLE A 5,00\nARTICLE B 18,90\nARTICLE C 2,10", parseClock)
	if !parsed.Total.Equal(decimal.NewFromFloat(18.9)) {
		t.Errorf("total = %s, want max amount 18.9", parsed.Total)
	}
}

func TestParseTotalRejectsImplausibleAmounts(t *testing.T) {
	parsed := ParseAt("CODE 99999,99\nARTICLE 12,00", parseClock)
	if !parsed.Total.Equal(decimal.NewFromInt(12)) {
		t.Errorf("total = %s, want 12 with artifact rejected", parsed.Total)
	}
}

func TestParseItems(t *testing.T) {
	parsed := ParseAt(carrefourReceipt, parseClock)
	if len(parsed.Items) != 3 {
		t.Fatalf("items = %d, want 3 (total/CB/merci lines skipped)", len(parsed.Items))
	}
	if parsed.Items[0].Description != "LAIT DEMI-ECREME" {
		t.Errorf("item description = %q", parsed.Items[0].Description)
	}
	if !parsed.Items[0].Amount.Equal(decimal.NewFromFloat(1.15)) {
		t.Errorf("item amount = %s, want 1.15", parsed.Items[0].Amount)
	}
}

func TestParseItemsSkipAmountOnlyLines(t *testing.T) {
	parsed := ParseAt("12,50\nPOMMES 3,20", parseClock)
	if len(parsed.Items) != 1 || parsed.Items[0].Description != "POMMES" {
		t.Errorf("items = %v, want only the described line", parsed.Items)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{carrefourReceipt, "Alimentation"},
		{"PHARMACIE DU CENTRE\nDOLIPRANE 3,50", "Santé & Beauté"},
		{"DECATHLON VILLE\nBALLON 9,99", "Sport & Loisirs"},
		{"LEROY MERLIN\nVIS 4,20", "Bricolage & Maison"},
		{"FNAC PARIS\nLIVRE 19,90", "High-Tech"},
		{"BRASSERIE DU PORT\nMENU 15,00", "Restaurants"},
		{"CHEZ MARCEL\nARTICLE 2,00", "Divers"},
	}
	for _, tt := range tests {
		if got := ParseAt(tt.text, parseClock).Category; got != tt.want {
			t.Errorf("category(%q...) = %q, want %q", tt.text[:10], got, tt.want)
		}
	}
}

func TestExtractAmountSingleLine(t *testing.T) {
	if got := ExtractAmount("TOTAL 23,50"); !got.Equal(decimal.NewFromFloat(23.5)) {
		t.Errorf("ExtractAmount = %s, want 23.5", got)
	}
	if got := ExtractAmount("no amount here"); !got.IsZero() {
		t.Errorf("ExtractAmount = %s, want 0", got)
	}
}

func TestExtractDateSingleLine(t *testing.T) {
	if got := ExtractDate("le 04/12/2025", parseClock); got != "2025-12-04" {
		t.Errorf("ExtractDate = %q, want 2025-12-04", got)
	}
	if got := ExtractDate("rien", parseClock); got != "2025-06-15" {
		t.Errorf("ExtractDate fallback = %q, want 2025-06-15", got)
	}
}
