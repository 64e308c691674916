package tradejournal

import (
	"errors"
	"testing"

	"github.com/etnz/tradejournal/date"
)

func cashLedger() *Classification {
	return ClassifyRecords([]TradeRecord{
		open("ABC", 10, 100, "2026-01-05"),
		closed("XYZ", 20, 25, 10, "2026-01-02", "2026-01-20"),
	})
}

func TestDerivedCash(t *testing.T) {
	fees := DefaultFees("USD")
	tests := []struct {
		name  string
		since date.Date
		want  Money
	}{
		// 10000 − (1000 + 4.28) + (250 − 3.578)
		{"all trades", date.Date{}, USD(9242.142)},
		// only the exit of XYZ happened after the reference date.
		{"since", date.New(2026, 1, 10), USD(10246.422)},
		// XYZ was bought and sold after the reference date:
		// 10000 − (1000 + 4.28) − (200 + 3.578) + (250 − 3.578)
		{"round trip", date.New(2026, 1, 1), USD(9038.564)},
		{"nothing", date.New(2026, 2, 1), USD(10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DerivedCash{Reference: USD(10000), Since: tt.since}.Cash(cashLedger(), fees, "USD")
			if err != nil {
				t.Fatalf("Cash() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Cash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStaticCash(t *testing.T) {
	got, err := StaticCash{Amount: NO(1234.5)}.Cash(cashLedger(), DefaultFees("USD"), "USD")
	if err != nil {
		t.Fatalf("Cash() error = %v", err)
	}
	if got.Currency() != "USD" || !got.Equal(USD(1234.5)) {
		t.Errorf("Cash() = %v, want %v", got, USD(1234.5))
	}
}

func TestLedgerCash(t *testing.T) {
	c := cashLedger()
	c.Fields = []Field{FieldTicker, FieldEntryPrice, FieldQuantity, FieldCash}
	if _, err := (LedgerCash{}).Cash(c, DefaultFees("USD"), "USD"); !errors.Is(err, ErrNoCashValue) {
		t.Errorf("Cash() error = %v, want ErrNoCashValue", err)
	}

	c.Open[0].Cash = ptr(USD(9000))
	c.Closed[0].Cash = ptr(USD(8000))
	got, err := LedgerCash{}.Cash(c, DefaultFees("USD"), "USD")
	if err != nil {
		t.Fatalf("Cash() error = %v", err)
	}
	// XYZ is the second row of the ledger.
	if !got.Equal(USD(8000)) {
		t.Errorf("Cash() = %v, want %v", got, USD(8000))
	}

	c.Fields = []Field{FieldTicker, FieldEntryPrice, FieldQuantity}
	if _, err := (LedgerCash{}).Cash(c, DefaultFees("USD"), "USD"); !errors.Is(err, ErrNoCashColumn) {
		t.Errorf("Cash() error = %v, want ErrNoCashColumn", err)
	}
}
