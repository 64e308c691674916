package tradejournal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tradejournal/date"
)

const journalCSV = `Ticker , Entry Date,Entry Price,Qty,Total Cost,Exit Price,Exit Date,P&L,Reason
abc,2026-01-05,$10.00,100,"$1,000.00",,,,Breakout
ABC ,2026-01-12,12,50,600,0,,,Above 150 average
XYZ,2026-01-02,20,10,200,25,2026-01-20,46.50,Cup and handle
,2026-01-03,5,10,50,,,,
,,,,,,,,
QQQ,2026-01-04,n/a,abc,,,,,
`

func readJournal(t *testing.T, csv string) Table {
	t.Helper()
	table, err := ReadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	return table
}

func TestClassify(t *testing.T) {
	table := readJournal(t, journalCSV)
	c, err := Classify(table, DefaultSchema("USD"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if got, want := c.Len(), len(table.Rows); got != want {
		t.Errorf("Classify() partition = %d rows, want %d", got, want)
	}
	if got, want := len(c.Open), 3; got != want {
		t.Errorf("len(Open) = %d, want %d", got, want)
	}
	if got, want := len(c.Closed), 1; got != want {
		t.Errorf("len(Closed) = %d, want %d", got, want)
	}
	if got, want := len(c.Dropped), 2; got != want {
		t.Errorf("len(Dropped) = %d, want %d: %v", got, want, c.Dropped)
	}
	// QQQ has an invalid entry price ("n/a" is empty) and quantity.
	if got, want := len(c.Coerced), 1; got != want {
		t.Errorf("len(Coerced) = %d, want %d: %v", got, want, c.Coerced)
	}

	first := c.Open[0]
	if first.Ticker != "ABC" {
		t.Errorf("Ticker = %q, want %q", first.Ticker, "ABC")
	}
	if !first.EntryPrice.Equal(USD(10)) {
		t.Errorf("EntryPrice = %v, want %v", first.EntryPrice, USD(10))
	}
	if first.StoredEntryCost == nil || !first.StoredEntryCost.Equal(USD(1000)) {
		t.Errorf("StoredEntryCost = %v, want %v", first.StoredEntryCost, USD(1000))
	}
	if first.EntryReason != "Breakout" {
		t.Errorf("EntryReason = %q, want %q", first.EntryReason, "Breakout")
	}

	xyz := c.Closed[0]
	if xyz.StoredPnL == nil || !xyz.StoredPnL.Equal(USD(46.50)) {
		t.Errorf("StoredPnL = %v, want %v", xyz.StoredPnL, USD(46.50))
	}
	if got, want := xyz.ExitDate.String(), "2026-01-20"; got != want {
		t.Errorf("ExitDate = %q, want %q", got, want)
	}
}

func TestClassifyMissingColumns(t *testing.T) {
	table := readJournal(t, "Ticker,Exit Price\nABC,1\n")
	_, err := Classify(table, DefaultSchema("USD"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Classify() error = %v, want ErrMissingColumn", err)
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Classify() error = %T, want *SchemaError", err)
	}
	if got, want := len(schemaErr.Missing), 2; got != want {
		t.Errorf("Missing = %v, want %d fields", schemaErr.Missing, want)
	}
}

func TestClassifyHebrewHeader(t *testing.T) {
	table := readJournal(t, "\ufeffטיקר,מחיר כניסה,כמות,מחיר יציאה,סיבת כניסה\nSEDG,32.92,174,30.45,תחקיר נדרש\nPLTR,164.60,34,,מימוש רווח\n")
	c, err := Classify(table, DefaultSchema("USD"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.Open) != 1 || len(c.Closed) != 1 {
		t.Fatalf("Classify() = %d open %d closed, want 1 and 1", len(c.Open), len(c.Closed))
	}
	if got, want := c.Closed[0].Ticker, "SEDG"; got != want {
		t.Errorf("Closed[0].Ticker = %q, want %q", got, want)
	}
	if c.Has(FieldCash) {
		t.Errorf("Has(FieldCash) = true, want false")
	}
}

func TestClassifyHeaderWhitespace(t *testing.T) {
	table := Table{
		Header: []string{" Ticker ", "  ENTRY   price ", "Qty"},
		Rows:   [][]string{{"abc", "1,234.50", "2"}},
	}
	c, err := Classify(table, DefaultSchema("USD"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got, want := c.Open[0].EntryCost(), USD(2469); !got.Equal(want) {
		t.Errorf("EntryCost() = %v, want %v", got, want)
	}
}

func TestClassifyDayFirst(t *testing.T) {
	const csv = "Ticker,Entry Date,Entry Price,Qty,Exit Price,Exit Date\nXYZ,02/01/2026,20,10,25,20/01/2026\n"
	s := DefaultSchema("USD")
	s.DateLayouts = date.DayFirst
	c, err := Classify(readJournal(t, csv), s)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.Closed) != 1 || len(c.Coerced) != 0 {
		t.Fatalf("Classify() = %d closed, issues %v, want 1 closed and no issues", len(c.Closed), c.Coerced)
	}
	r := c.Closed[0]
	if got, want := r.EntryDate, date.New(2026, time.January, 2); got != want {
		t.Errorf("EntryDate = %v, want %v", got, want)
	}
	if got, want := r.ExitDate, date.New(2026, time.January, 20); got != want {
		t.Errorf("ExitDate = %v, want %v", got, want)
	}
}

func TestClassifyRecords(t *testing.T) {
	records := []TradeRecord{
		open(" abc ", 10, 100, "2026-01-05"),
		closed("xyz", 20, 25, 10, "2026-01-02", "2026-01-20"),
		open("", 1, 1, "2026-01-05"),
	}
	c := ClassifyRecords(records)
	if got, want := c.Len(), len(records); got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if got, want := c.Open[0].Ticker, "ABC"; got != want {
		t.Errorf("Open[0].Ticker = %q, want %q", got, want)
	}
	if got, want := c.Dropped[0].Row, 3; got != want {
		t.Errorf("Dropped[0].Row = %d, want %d", got, want)
	}
}

func TestSchemaWithAliases(t *testing.T) {
	s := DefaultSchema("USD").WithAliases(FieldQuantity, "Stück")
	if _, err := s.Bind([]string{"Ticker", "Entry Price", "stück"}); err != nil {
		t.Errorf("Bind() error = %v", err)
	}
	if _, err := DefaultSchema("USD").Bind([]string{"Ticker", "Entry Price", "stück"}); err == nil {
		t.Errorf("DefaultSchema() was modified by WithAliases")
	}
}
