// Package wget contains http utils to deal with remote services.
package wget

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/tradejournal/date"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request made by clients of this package.
const DefaultTimeout = 30 * time.Second

// diskCache implements a simple disk cache for HTTP GET responses.
type diskCache struct {
	base http.RoundTripper
	dir  string
	log  zerolog.Logger
}

// RoundTrip implements http.RoundTripper. Successful GET responses are
// stored on disk and served from there for the rest of the day.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the key is unique per day, so the cache expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("tj-%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		c.log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Msg("cache hit")
		return cached, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("http")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to the disk cache.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// Client returns a plain client with DefaultTimeout.
func Client() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Daily returns a client whose GET responses are cached in the temp directory until the end of the day.
func Daily(log zerolog.Logger) *http.Client {
	return CachedIn(os.TempDir(), log)
}

// CachedIn is like Daily but caches responses in dir.
func CachedIn(dir string, log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &diskCache{base: http.DefaultTransport, dir: dir, log: log},
	}
}

// StatusError is returned for a response that is not 200 OK.
type StatusError struct {
	Host, Path string
	Status     string
	Code       int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// Get performs an HTTP GET request and returns the response body.
func Get(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Host: req.URL.Host, Path: req.URL.Path, Status: resp.Status, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// JSON performs an HTTP GET request and unmarshals the JSON response into data.
func JSON(ctx context.Context, client *http.Client, addr string, data any) error {
	content, err := Get(ctx, client, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, data)
}
