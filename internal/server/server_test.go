package server_test

import (
	"bytes"
	"context"
	"image/gif"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tkilaker/magazine/internal/cache"
	"github.com/tkilaker/magazine/internal/config"
	"github.com/tkilaker/magazine/internal/fetcher"
	"github.com/tkilaker/magazine/internal/magazine"
	"github.com/tkilaker/magazine/internal/metrics"
	"github.com/tkilaker/magazine/internal/render"
	"github.com/tkilaker/magazine/internal/server"
	"github.com/tkilaker/magazine/internal/widget"
)

type stubFetcher struct {
	result fetcher.Result
	calls  int
}

func (s *stubFetcher) Fetch(ctx context.Context) <-chan fetcher.Result {
	s.calls++
	ch := make(chan fetcher.Result, 1)
	ch <- s.result
	close(ch)
	return ch
}

func ahoy() *magazine.Payload {
	return &magazine.Payload{
		Tagline:  "Ahoy",
		Articles: []magazine.Article{{Title: "T", Author: "A", Category: "C", Pubdate: "2024-01-01", Article: "Body"}},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "images", "oops.gif"), []byte("GIF89a"), 0o644))

	return &config.Config{
		Port:            8080,
		StaticDir:       static,
		RegionID:        "app",
		FeedTitle:       "Pirate Magazine",
		FeedLink:        "http://localhost:8080",
		FeedDescription: "News",
		FeedAuthor:      "Crew",
	}
}

func newServer(t *testing.T, cfg *config.Config, f *stubFetcher) (*server.Server, *cache.MemoryStore, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	store := cache.NewMemoryStore(nil)
	w := widget.New(store, f, widget.WithMetrics(metrics.New(reg)))
	return server.New(w, store, cfg, reg), store, reg
}

func get(t *testing.T, srv *server.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersFreshPayload(t *testing.T) {
	f := &stubFetcher{result: fetcher.Result{Payload: ahoy()}}
	srv, store, _ := newServer(t, testConfig(t), f)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), `<div id="app"><p>Ahoy</p>`)
	require.NotNil(t, store.Load(context.Background()))

	// Second load is served from the cache.
	rec = get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.calls)
}

func TestIndexRendersErrorView(t *testing.T) {
	f := &stubFetcher{result: fetcher.Result{Err: fetcher.ErrStatus}}
	srv, _, _ := newServer(t, testConfig(t), f)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), render.ErrorImage)
}

func TestIndexWithoutRegion(t *testing.T) {
	cfg := testConfig(t)
	cfg.RegionID = ""
	f := &stubFetcher{result: fetcher.Result{Payload: ahoy()}}
	srv, _, _ := newServer(t, cfg, f)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), `id="app"`)
	require.Equal(t, 0, f.calls)
}

func TestRSS(t *testing.T) {
	f := &stubFetcher{result: fetcher.Result{Payload: ahoy()}}
	srv, store, _ := newServer(t, testConfig(t), f)

	rec := get(t, srv, "/rss.xml")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, store.Save(context.Background(), ahoy()))
	rec = get(t, srv, "/rss.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	require.Contains(t, rec.Body.String(), "<title>T</title>")
	require.Equal(t, 0, f.calls)
}

func TestErrorImageIsServed(t *testing.T) {
	srv, _, _ := newServer(t, testConfig(t), &stubFetcher{})

	rec := get(t, srv, "/"+render.ErrorImage)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "GIF89a"))
}

func TestShippedErrorImageDecodes(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "static", render.ErrorImage))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := gif.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, img.Bounds().Dx())
	require.Equal(t, 1, img.Bounds().Dy())
}

func TestMetricsEndpoint(t *testing.T) {
	f := &stubFetcher{result: fetcher.Result{Err: fetcher.ErrStatus}}
	srv, _, _ := newServer(t, testConfig(t), f)

	get(t, srv, "/")
	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `magazine_runs_total{state="error"} 1`)
	require.Contains(t, rec.Body.String(), `magazine_fetches_total{result="failure"} 1`)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newServer(t, testConfig(t), &stubFetcher{})

	rec := get(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}
