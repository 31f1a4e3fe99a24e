package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pirates.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"tagline":"Ahoy","articles":[{"title":"T","author":"A","category":"C","pubdate":"2024-01-01","article":"Body"}]}`))
	}))
	defer api.Close()

	t.Setenv("API_BASE", api.URL+"/api/")
	t.Setenv("ENDPOINTS", "pirates.json=1")
	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	out := filepath.Join(t.TempDir(), "index.html")
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"render", "--out", out})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagOut = ""
	})

	require.NoError(t, rootCmd.Execute())

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(page), `<div id="app"><p>Ahoy</p>`)
	require.Contains(t, string(page), `<h2 class="entry-title">T</h2>`)
	require.Empty(t, stdout.String())
}

func TestRenderCommandFailingEndpoint(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	defer api.Close()

	t.Setenv("API_BASE", api.URL+"/api/")
	t.Setenv("ENDPOINTS", "fail.json=1")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"render"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, stdout.String(), `<img src="images/oops.gif"`)
}
