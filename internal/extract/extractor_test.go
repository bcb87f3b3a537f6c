package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"adpipe/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticExtractor() *Extractor {
	cfg := config.Default()
	cfg.Extract.BrowserEnabled = false
	return New(cfg)
}

func TestExtractStaticPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Ceramic Mug</h1>
			<div class="description">Hand glazed stoneware mug</div>
			<span class="price">$18</span>
		</body></html>`))
	}))
	defer srv.Close()

	e := staticExtractor()
	defer e.Close()

	rec := e.Extract(context.Background(), srv.URL+"/shop/ceramic-mug")
	assert.Equal(t, "Ceramic Mug", rec.Title)
	assert.Equal(t, "Hand glazed stoneware mug", rec.Description)
	assert.Equal(t, "$18", rec.Price)
	assert.False(t, rec.IsSynthetic)
}

func TestExtractFallsBackToSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	e := staticExtractor()
	defer e.Close()

	rec := e.Extract(context.Background(), srv.URL+"/products/ergonomic-office-chair")
	require.NotNil(t, rec)
	assert.True(t, rec.IsSynthetic)
	// the synthetic title is derived from the URL path
	assert.Equal(t, "Ergonomic Office Chair", rec.Title)
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	in := strings.Repeat("a", 499) + "日本語"
	got := truncate(in, 500)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 503, utf8.RuneCountInString(got), "500 runes plus ellipsis")
	assert.True(t, strings.HasSuffix(got, "日..."))

	short := strings.Repeat("é", 500)
	assert.Equal(t, short, truncate(short, 500))
}

func TestExtractPageWithoutTitleSynthesizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing to see</p></body></html>`))
	}))
	defer srv.Close()

	e := staticExtractor()
	defer e.Close()

	rec := e.Extract(context.Background(), srv.URL+"/items/walnut-desk-organizer")
	assert.True(t, rec.IsSynthetic)
	assert.Equal(t, "Walnut Desk Organizer", rec.Title)
}
