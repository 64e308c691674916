package tradejournal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyCell is returned by ParseAmount for a cell with no value.
var ErrEmptyCell = errors.New("empty cell")

// placeholders spreadsheets use for "no value".
var emptyMarkers = map[string]bool{"": true, "-": true, "—": true, "n/a": true, "na": true, "#n/a": true}

// amountNoise is removed from numeric cells before parsing.
var amountNoise = strings.NewReplacer(
	"$", "", "₪", "", "€", "", "£", "",
	",", "", " ", "", "\u00a0", "", "\u202f", "",
	"−", "-", // unicode minus sign
)

// ParseAmount parses a numeric spreadsheet cell.
//
// Currency symbols, thousands separators and spaces are ignored, and
// accounting negatives like "(12.50)" are supported. It returns ErrEmptyCell
// for blank cells and placeholders, and a parse error otherwise.
func ParseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if emptyMarkers[strings.ToLower(s)] {
		return decimal.Zero, ErrEmptyCell
	}
	s = amountNoise.Replace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return decimal.Zero, ErrEmptyCell
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", cell)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
