package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/config"
	"github.com/Cytla24/poemtok/internal/fetcher"
	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/pipeline"
	"github.com/Cytla24/poemtok/internal/store"
)

func testEnv(t *testing.T) *renderEnv {
	t.Helper()
	c := &config.Config{
		Store: config.StoreConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "serve.db")},
	}

	st, err := store.Open(context.Background(), c.Store)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	p := pipeline.New(c, st, fetcher.NewStager(c.Fetch), nil, nil)
	return &renderEnv{Store: st, Pipeline: p}
}

func TestServeHealth(t *testing.T) {
	mux := buildMux(context.Background(), testEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServeRenderValidation(t *testing.T) {
	mux := buildMux(context.Background(), testEnv(t))

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", "{not json", http.StatusBadRequest},
		{"missing paths", `{}`, http.StatusBadRequest},
		{"missing video", `{"pdf_path":"a.pdf"}`, http.StatusBadRequest},
		{"unknown mode", `{"pdf_path":"a.pdf","video_path":"b.mp4","mode":"hologram"}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(tc.body)))
		assert.Equal(t, tc.code, rec.Code, tc.name)
	}
}

func TestServeRenderAccepted(t *testing.T) {
	mux := buildMux(context.Background(), testEnv(t))

	body := `{"pdf_path":"/missing/a.pdf","video_path":"/missing/b.mp4","output_dir":"out"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "accepted")
}

func TestServeListRuns(t *testing.T) {
	env := testEnv(t)
	_, err := env.Store.CreateRun(context.Background(), model.RenderJob{
		PDFPath: "poems.pdf", VideoPath: "rain.mp4", Mode: model.ModePageImage,
	})
	require.NoError(t, err)

	mux := buildMux(context.Background(), env)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "poems.pdf")
}

func TestShutdownOnDone(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		shutdownOnDone(ctx, srv)
		close(done)
	}()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	// The canceled context stands in for a delivered signal; the drain must
	// still complete under its own deadline.
	cancel()

	select {
	case err := <-serveErr:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown goroutine did not return")
	}
}

func TestServeGetRun(t *testing.T) {
	env := testEnv(t)
	run, err := env.Store.CreateRun(context.Background(), model.RenderJob{
		PDFPath: "poems.pdf", VideoPath: "rain.mp4", Mode: model.ModePageImage,
	})
	require.NoError(t, err)

	mux := buildMux(context.Background(), env)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+run.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
