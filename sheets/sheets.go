// Package sheets reads trade ledgers from Google Sheets and CSV files.
package sheets

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/wget"
	"github.com/rs/zerolog"
)

// DefaultURL is the base url of Google Sheets documents.
const DefaultURL = "https://docs.google.com/spreadsheets/d"

// Sheet is a tradejournal.LedgerSource reading one tab of a Google Sheets
// document through its CSV export. The document must be shared for reading
// with anyone that has the link.
type Sheet struct {
	ID      string // document id
	GID     string // tab id, the first tab when empty
	BaseURL string

	client *http.Client
	log    zerolog.Logger
}

// New returns the Sheet of document id, tab gid.
func New(id, gid string, log zerolog.Logger) *Sheet {
	return &Sheet{
		ID:      id,
		GID:     gid,
		BaseURL: DefaultURL,
		client:  wget.Client(),
		log:     log.With().Str("component", "sheets").Logger(),
	}
}

var (
	docPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	gidPattern = regexp.MustCompile(`[#&?]gid=([0-9]+)`)
)

// Parse extracts the document id and tab id of a Google Sheets link, like
// "https://docs.google.com/spreadsheets/d/1AbC/edit#gid=42".
func Parse(link string) (id, gid string, err error) {
	m := docPattern.FindStringSubmatch(link)
	if m == nil {
		return "", "", fmt.Errorf("%q is not a Google Sheets link", link)
	}
	id = m[1]
	if g := gidPattern.FindStringSubmatch(link); g != nil {
		gid = g[1]
	}
	return id, gid, nil
}

// URL returns the CSV export address of the sheet.
func (s *Sheet) URL() string {
	q := url.Values{}
	q.Set("format", "csv")
	if s.GID != "" {
		q.Set("gid", s.GID)
	}
	return fmt.Sprintf("%s/%s/export?%s", s.BaseURL, url.PathEscape(s.ID), q.Encode())
}

// Table implements tradejournal.LedgerSource.
func (s *Sheet) Table(ctx context.Context) (tradejournal.Table, error) {
	content, err := wget.Get(ctx, s.client, s.URL())
	if err != nil {
		return tradejournal.Table{}, fmt.Errorf("cannot download sheet %s: %w", s.ID, err)
	}
	t, err := tradejournal.ReadTable(bytes.NewReader(content))
	if err != nil {
		return t, fmt.Errorf("cannot read sheet %s: %w", s.ID, err)
	}
	s.log.Debug().Str("sheet", s.ID).Int("rows", len(t.Rows)).Msg("sheet downloaded")
	return t, nil
}

// File is a tradejournal.LedgerSource reading a local CSV file.
type File string

// Table implements tradejournal.LedgerSource.
func (f File) Table(ctx context.Context) (tradejournal.Table, error) {
	r, err := os.Open(string(f))
	if err != nil {
		return tradejournal.Table{}, err
	}
	defer r.Close()
	t, err := tradejournal.ReadTable(r)
	if err != nil {
		return t, fmt.Errorf("cannot read %s: %w", f, err)
	}
	return t, nil
}

// Open returns the ledger source of location: a Google Sheets link or a
// local CSV file name.
func Open(location string, log zerolog.Logger) tradejournal.LedgerSource {
	if id, gid, err := Parse(location); err == nil {
		return New(id, gid, log)
	}
	return File(location)
}
