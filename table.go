package tradejournal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a raw ledger as read from a spreadsheet: a header and string rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// LedgerSource supplies the current ledger table.
type LedgerSource interface {
	Table(ctx context.Context) (Table, error)
}

// LedgerFunc adapts a function into a LedgerSource.
type LedgerFunc func(ctx context.Context) (Table, error)

func (f LedgerFunc) Table(ctx context.Context) (Table, error) { return f(ctx) }

// ReadTable reads a CSV ledger. The first record is the header.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // spreadsheet exports drop trailing empty cells
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("cannot read ledger csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("cannot read ledger csv: no header")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return Table{Header: header, Rows: records[1:]}, nil
}
