package tradejournal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/tradejournal/date"
)

// RowIssue describes a ledger cell or row that could not be used as is.
type RowIssue struct {
	Row    int    `json:"row"`
	Field  Field  `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (i RowIssue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("row %d: %s", i.Row, i.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", i.Row, i.Field, i.Value, i.Reason)
}

// Classification partitions ledger rows into open and closed legs.
//
// Every input row ends in exactly one of Open, Closed or Dropped. Coerced
// lists cells that were replaced by zero (or no date) in kept rows.
type Classification struct {
	Open    []TradeRecord
	Closed  []TradeRecord
	Dropped []RowIssue
	Coerced []RowIssue
	Fields  []Field // ledger fields available, nil when built from records
}

// Len returns the number of input rows.
func (c *Classification) Len() int { return len(c.Open) + len(c.Closed) + len(c.Dropped) }

// Has reports whether the ledger provides field. Classifications built from
// records report every field as available.
func (c *Classification) Has(f Field) bool {
	if c.Fields == nil {
		return true
	}
	for _, x := range c.Fields {
		if x == f {
			return true
		}
	}
	return false
}

func (c *Classification) add(r TradeRecord) {
	if r.IsOpen() {
		c.Open = append(c.Open, r)
	} else {
		c.Closed = append(c.Closed, r)
	}
}

// Classify decodes and partitions a ledger table.
//
// The only error is a *SchemaError when required columns are missing;
// malformed rows and cells are reported in the Classification instead.
func Classify(t Table, s Schema) (*Classification, error) {
	b, err := s.Bind(t.Header)
	if err != nil {
		return nil, err
	}
	c := &Classification{Fields: b.Fields()}
	for i, row := range t.Rows {
		d := rowDecoder{binding: b, row: row, num: i + 1, currency: s.Currency, layouts: s.DateLayouts}
		r, ok := d.decode()
		c.Coerced = append(c.Coerced, d.issues...)
		if !ok {
			c.Dropped = append(c.Dropped, d.dropped)
			continue
		}
		c.add(r)
	}
	return c, nil
}

// ClassifyRecords partitions already typed records, normalizing tickers and
// dropping records without one.
func ClassifyRecords(records []TradeRecord) *Classification {
	c := new(Classification)
	for i, r := range records {
		r.Ticker = NormalizeTicker(r.Ticker)
		if r.Row == 0 {
			r.Row = i + 1
		}
		if r.Ticker == "" {
			c.Dropped = append(c.Dropped, RowIssue{Row: r.Row, Field: FieldTicker, Reason: "missing ticker"})
			continue
		}
		c.add(r)
	}
	return c
}

// rowDecoder turns one table row into a TradeRecord.
type rowDecoder struct {
	binding  Binding
	row      []string
	num      int
	currency string
	layouts  []string

	issues  []RowIssue
	dropped RowIssue
}

func (d *rowDecoder) decode() (TradeRecord, bool) {
	if isBlank(d.row) {
		d.dropped = RowIssue{Row: d.num, Reason: "empty row"}
		return TradeRecord{}, false
	}
	r := TradeRecord{Row: d.num, Ticker: NormalizeTicker(d.binding.cell(d.row, FieldTicker))}
	if r.Ticker == "" {
		d.dropped = RowIssue{Row: d.num, Field: FieldTicker, Reason: "missing ticker"}
		return TradeRecord{}, false
	}

	r.EntryPrice = d.money(FieldEntryPrice)
	r.ExitPrice = d.money(FieldExitPrice)
	r.Quantity = Q(d.amount(FieldQuantity).Decimal())
	r.EntryDate = d.date(FieldEntryDate)
	r.ExitDate = d.date(FieldExitDate)
	r.StoredEntryCost = d.optional(FieldEntryCost)
	r.StoredExitCost = d.optional(FieldExitCost)
	r.StoredPnL = d.optional(FieldPnL)
	r.Cash = d.optional(FieldCash)
	r.EntryReason = d.binding.cell(d.row, FieldEntryReason)
	r.ExitReason = d.binding.cell(d.row, FieldExitReason)
	return r, true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// amount reads a numeric cell, coercing invalid content to zero.
func (d *rowDecoder) amount(f Field) Money {
	cell := d.binding.cell(d.row, f)
	v, err := ParseAmount(cell)
	if err != nil && !errors.Is(err, ErrEmptyCell) {
		d.issues = append(d.issues, RowIssue{Row: d.num, Field: f, Value: cell, Reason: "not a number, read as 0"})
	}
	return M(v, "")
}

func (d *rowDecoder) money(f Field) Money { return d.amount(f).In(d.currency) }

// optional reads a numeric cell that may be absent; invalid content counts as absent.
func (d *rowDecoder) optional(f Field) *Money {
	cell := d.binding.cell(d.row, f)
	v, err := ParseAmount(cell)
	if errors.Is(err, ErrEmptyCell) {
		return nil
	}
	if err != nil {
		d.issues = append(d.issues, RowIssue{Row: d.num, Field: f, Value: cell, Reason: "not a number, ignored"})
		return nil
	}
	m := M(v, d.currency)
	return &m
}

func (d *rowDecoder) date(f Field) date.Date {
	cell := d.binding.cell(d.row, f)
	layouts := d.layouts
	if len(layouts) == 0 {
		layouts = date.Layouts
	}
	on, err := date.ParseIn(cell, layouts)
	if err != nil {
		d.issues = append(d.issues, RowIssue{Row: d.num, Field: f, Value: cell, Reason: "not a date, ignored"})
	}
	return on
}
