package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Cytla24/poemtok/internal/config"
)

func testStager() *Stager {
	return NewStager(config.FetchConfig{
		UserAgent:   "poemtok-test/1.0",
		TimeoutSecs: 5,
		MaxRetries:  3,
		RatePerSec:  100,
	})
}

func TestStageLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	got, err := testStager().Stage(context.Background(), path, dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestStageLocalMissing(t *testing.T) {
	_, err := testStager().Stage(context.Background(), "/nonexistent/poem.pdf", t.TempDir())
	assert.Error(t, err)
}

func TestStageFileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poem.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	got, err := testStager().Stage(context.Background(), "file://"+path, dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestStageHTTPDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "poemtok-test/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("%PDF-1.4 body"))
	}))
	defer srv.Close()

	scratch := t.TempDir()
	got, err := testStager().Stage(context.Background(), srv.URL+"/docs/poem.pdf", scratch)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "poem.pdf"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))
}

func TestStageUnsupportedScheme(t *testing.T) {
	_, err := testStager().Stage(context.Background(), "gopher://host/file", t.TempDir())
	assert.ErrorContains(t, err, "unsupported scheme")
}

func TestHTTPFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 5, RatePerSec: 1000})
	body, err := f.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcherExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 2, RatePerSec: 1000})
	_, err := f.Download(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "retries exhausted")
}

func TestHTTPFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 1, RatePerSec: 1000})
	_, err := f.Download(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 404")
}

func TestAdaptiveLimiterTuning(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 10)
	assert.Equal(t, rate.Limit(10), lim.Limit())

	lim.OnRateLimit()
	assert.Equal(t, rate.Limit(5), lim.Limit())

	for range 10 {
		lim.OnRateLimit()
	}
	assert.Equal(t, rate.Limit(2.5), lim.Limit())

	for range 20 {
		lim.OnSuccess()
	}
	assert.Equal(t, rate.Limit(20), lim.Limit())
}

func TestNewFTPFetcherDefaultTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewFTPFetcher(0).timeout)
	assert.Equal(t, 5*time.Second, NewFTPFetcher(5*time.Second).timeout)
}

func TestParseFTPURL(t *testing.T) {
	host, path, err := parseFTPURL("ftp://archive.example.org/pub/poem.pdf")
	require.NoError(t, err)
	assert.Equal(t, "archive.example.org:21", host)
	assert.Equal(t, "/pub/poem.pdf", path)

	host, _, err = parseFTPURL("ftp://archive.example.org:2121/pub/poem.pdf")
	require.NoError(t, err)
	assert.Equal(t, "archive.example.org:2121", host)

	_, _, err = parseFTPURL("http://archive.example.org/x")
	assert.Error(t, err)

	_, _, err = parseFTPURL("ftp://archive.example.org")
	assert.Error(t, err)
}
