package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const journal = "Ticker,Entry Price,Qty,Exit Price\nABC,10,100,\nXYZ,20,10,25\n"

func TestParse(t *testing.T) {
	tests := []struct {
		link, id, gid string
		err           bool
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC-d_E/edit#gid=42", "1AbC-d_E", "42", false},
		{"https://docs.google.com/spreadsheets/d/1AbC/edit", "1AbC", "", false},
		{"https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=7", "1AbC", "7", false},
		{"journal.csv", "", "", true},
	}
	for _, tt := range tests {
		id, gid, err := Parse(tt.link)
		if tt.err {
			assert.Error(t, err, tt.link)
			continue
		}
		require.NoError(t, err, tt.link)
		assert.Equal(t, tt.id, id)
		assert.Equal(t, tt.gid, gid)
	}
}

func TestSheetTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1AbC/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "42", r.URL.Query().Get("gid"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("\ufeff" + journal))
	}))
	defer srv.Close()

	s := New("1AbC", "42", zerolog.Nop())
	s.BaseURL = srv.URL
	table, err := s.Table(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticker", "Entry Price", "Qty", "Exit Price"}, table.Header)
	assert.Len(t, table.Rows, 2)
}

func TestSheetNotShared(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := New("1AbC", "", zerolog.Nop())
	s.BaseURL = srv.URL
	_, err := s.Table(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "journal.csv")
	require.NoError(t, os.WriteFile(name, []byte(journal), 0o600))

	src := Open(name, zerolog.Nop())
	require.IsType(t, File(""), src)
	table, err := src.Table(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)

	_, err = File(filepath.Join(t.TempDir(), "missing.csv")).Table(context.Background())
	assert.Error(t, err)
}
