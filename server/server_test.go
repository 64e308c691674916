package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/tradejournal"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = `Ticker,Entry Date,Entry Price,Qty,Exit Price,Exit Date
AAA,2026-01-05,100,10,,
BBB,2026-01-06,50,20,55,2026-02-01
`

// newTestServer returns a server over a refresher reading the ledger returned by read.
func newTestServer(t *testing.T, read func() (string, error)) (*Server, *tradejournal.Refresher) {
	t.Helper()
	agg, err := tradejournal.NewAggregator(
		tradejournal.DefaultConfig("USD"),
		tradejournal.StaticPrices(map[string]float64{"AAA": 110}),
		zerolog.Nop(),
	)
	require.NoError(t, err)
	src := tradejournal.LedgerFunc(func(ctx context.Context) (tradejournal.Table, error) {
		content, err := read()
		if err != nil {
			return tradejournal.Table{}, err
		}
		return tradejournal.ReadTable(strings.NewReader(content))
	})
	r := tradejournal.NewRefresher(agg, src, zerolog.Nop())
	return New(Config{Addr: "localhost:0", Log: zerolog.Nop(), Journal: r}), r
}

func get(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBeforeFirstRefresh(t *testing.T) {
	s, _ := newTestServer(t, func() (string, error) { return ledger, nil })

	for _, path := range []string{"/api/snapshot", "/api/positions", "/api/closed", "/api/insights", "/api/positions/AAA"} {
		rec := get(t, s, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	rec := get(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRoutes(t *testing.T) {
	s, _ := newTestServer(t, func() (string, error) { return ledger, nil })

	rec := get(t, s, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap struct {
		Cycle     uint64 `json:"cycle"`
		Positions []struct {
			Ticker string `json:"ticker"`
		} `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, uint64(1), snap.Cycle)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "AAA", snap.Positions[0].Ticker)

	rec = get(t, s, http.MethodGet, "/api/positions/aaa")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"priced":true`)

	rec = get(t, s, http.MethodGet, "/api/positions/BBB")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s, http.MethodGet, "/api/closed")
	assert.Equal(t, http.StatusOK, rec.Code)
	var closed struct {
		Trades []json.RawMessage `json:"trades"`
		Stats  struct {
			Wins int `json:"wins"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	assert.Len(t, closed.Trades, 1)
	assert.Equal(t, 1, closed.Stats.Wins)

	rec = get(t, s, http.MethodGet, "/api/insights")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "["), rec.Body.String())

	rec = get(t, s, http.MethodGet, "/api/snapshot?format=markdown")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "## Open Positions")
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	fail := false
	s, r := newTestServer(t, func() (string, error) {
		if fail {
			return "", errors.New("sheet unavailable")
		}
		return ledger, nil
	})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	rec := get(t, s, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet unavailable")

	rec = get(t, s, http.MethodGet, "/api/snapshot")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, s, http.MethodGet, "/healthz")
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, func() (string, error) { return ledger, nil })
	req := httptest.NewRequest(http.MethodOptions, "/api/snapshot", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
