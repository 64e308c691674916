package tradejournal

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Field is a logical column of the trade ledger.
type Field string

const (
	FieldTicker      Field = "ticker"
	FieldEntryDate   Field = "entry date"
	FieldEntryPrice  Field = "entry price"
	FieldQuantity    Field = "quantity"
	FieldExitPrice   Field = "exit price"
	FieldExitDate    Field = "exit date"
	FieldEntryCost   Field = "entry cost"
	FieldExitCost    Field = "exit cost"
	FieldPnL         Field = "p&l"
	FieldEntryReason Field = "entry reason"
	FieldExitReason  Field = "exit reason"
	FieldCash        Field = "cash"
)

// ErrMissingColumn is wrapped by SchemaError.
var ErrMissingColumn = errors.New("missing column")

// SchemaError reports the required columns that could not be found in a ledger header.
type SchemaError struct {
	Missing []Field
	Header  []string
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("ledger header %q has no column for %s", e.Header, strings.Join(names, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// Schema describes how ledger columns map to fields.
//
// Column names change from one version of the spreadsheet to the next
// (English or Hebrew headers, optional cash column), so every field accepts a
// list of aliases and only a few fields are required.
type Schema struct {
	Currency string             // currency of every amount in the ledger
	Aliases  map[Field][]string // header names per field, compared with normalizeHeader
	Required []Field

	DateLayouts []string // date.Layouts when empty
}

// DefaultSchema returns the schema matching the known journal layouts.
func DefaultSchema(currency string) Schema {
	return Schema{
		Currency: currency,
		Required: []Field{FieldTicker, FieldEntryPrice, FieldQuantity},
		Aliases: map[Field][]string{
			FieldTicker:      {"ticker", "symbol", "stock", "טיקר", "מניה", "סימול"},
			FieldEntryDate:   {"entry date", "date", "buy date", "open date", "תאריך כניסה", "תאריך"},
			FieldEntryPrice:  {"entry price", "buy price", "price in", "מחיר כניסה"},
			FieldQuantity:    {"qty", "quantity", "shares", "units", "כמות"},
			FieldExitPrice:   {"exit price", "sell price", "price out", "מחיר יציאה"},
			FieldExitDate:    {"exit date", "sell date", "close date", "תאריך יציאה"},
			FieldEntryCost:   {"entry cost", "total cost", "cost", "עלות כניסה", "עלות כוללת", "עלות"},
			FieldExitCost:    {"exit cost", "exit value", "proceeds", "תמורה", "שווי יציאה"},
			FieldPnL:         {"p&l", "pnl", "realized p&l", "profit/loss", "profit", "רווח/הפסד", "רווח והפסד"},
			FieldEntryReason: {"reason", "entry reason", "setup", "סיבת כניסה", "סיבה"},
			FieldExitReason:  {"exit reason", "סיבת יציאה"},
			FieldCash:        {"cash", "cash balance", "available cash", "balance", "מזומן", "יתרה"},
		},
	}
}

// WithAliases returns a copy of s where field also matches names.
func (s Schema) WithAliases(field Field, names ...string) Schema {
	aliases := make(map[Field][]string, len(s.Aliases))
	for f, n := range s.Aliases {
		aliases[f] = slices.Clone(n)
	}
	aliases[field] = append(aliases[field], names...)
	s.Aliases = aliases
	return s
}

// normalizeHeader trims, collapses inner whitespace and lower-cases a header name.
func normalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "\ufeff", "")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Binding maps fields to column indexes of a concrete header.
type Binding struct {
	index map[Field]int
}

// Bind matches header against the schema aliases.
//
// The first column matching a field wins, and a column is never bound twice.
// It returns a *SchemaError if a required field has no column.
func (s Schema) Bind(header []string) (Binding, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, dup := columns[n]; !dup && n != "" {
			columns[n] = i
		}
	}

	b := Binding{index: make(map[Field]int)}
	used := make(map[int]bool)
	// bind fields in a stable order so that aliases shared by fields resolve the same way every time.
	for _, f := range allFields {
		for _, alias := range s.Aliases[f] {
			i, ok := columns[normalizeHeader(alias)]
			if ok && !used[i] {
				b.index[f] = i
				used[i] = true
				break
			}
		}
	}

	var missing []Field
	for _, f := range s.Required {
		if !b.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return b, &SchemaError{Missing: missing, Header: header}
	}
	return b, nil
}

// allFields in binding priority order.
var allFields = []Field{
	FieldTicker, FieldEntryPrice, FieldQuantity, FieldExitPrice,
	FieldEntryDate, FieldExitDate, FieldExitCost, FieldEntryCost, FieldPnL,
	FieldExitReason, FieldEntryReason, FieldCash,
}

// AllFields returns every ledger field.
func AllFields() []Field { return slices.Clone(allFields) }

// Has reports whether the field is bound to a column.
func (b Binding) Has(f Field) bool {
	_, ok := b.index[f]
	return ok
}

// Fields returns the bound fields.
func (b Binding) Fields() []Field {
	var fields []Field
	for _, f := range allFields {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// cell returns the trimmed content of field in row, or "" if unbound or out of range.
func (b Binding) cell(row []string, f Field) string {
	i, ok := b.index[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
