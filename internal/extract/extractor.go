package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adpipe/internal/config"
	"adpipe/internal/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	maxImages      = 5
	maxFeatures    = 3
	maxDescription = 500
)

// Extractor turns a product page URL into a normalized ProductRecord.
// Extract never fails outward: any scrape error is downgraded to a
// synthetic record built from the URL.
type Extractor struct {
	cfg        *config.Config
	sess       *session
	tabs       *semaphore.Weighted
	httpClient *http.Client
}

func New(cfg *config.Config) *Extractor {
	return &Extractor{
		cfg:  cfg,
		sess: newSession(cfg.Extract.UserAgent),
		tabs: semaphore.NewWeighted(int64(cfg.Extract.MaxSessions)),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Extract.TimeoutSec) * time.Second,
		},
	}
}

// Extract scrapes the URL, or synthesizes a demo product when scraping fails
func (e *Extractor) Extract(ctx context.Context, rawURL string) *types.ProductRecord {
	rec, err := e.scrape(ctx, rawURL)
	if err == nil {
		return rec
	}

	log.Warn().Err(err).Str("url", rawURL).Msg("scrape failed, synthesizing demo product")
	return synthesize(rawURL)
}

// Close shuts down the shared browser session
func (e *Extractor) Close() {
	e.sess.Close()
}

func (e *Extractor) scrape(ctx context.Context, rawURL string) (*types.ProductRecord, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	strat := matchStrategy(strings.ToLower(u.Hostname()), u.Path)
	log.Debug().Str("strategy", strat.Name).Str("host", u.Hostname()).Msg("strategy selected")

	timeout := time.Duration(e.cfg.Extract.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := e.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	raw := strat.evaluate(doc)
	if strings.TrimSpace(raw.Title) == "" {
		return nil, fmt.Errorf("no product title found (strategy %s)", strat.Name)
	}

	rec := normalize(raw, rawURL)
	log.Info().Str("title", rec.Title).Str("strategy", strat.Name).Msg("product extracted")
	return rec, nil
}

// fetchHTML uses the shared browser session when enabled, else a plain HTTP
// GET. The semaphore bounds concurrent tab use on the shared browser.
func (e *Extractor) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	if !e.cfg.Extract.BrowserEnabled {
		return e.fetchStatic(ctx, rawURL)
	}

	if err := e.tabs.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.tabs.Release(1)

	return e.sess.fetchHTML(ctx, rawURL)
}

func (e *Extractor) fetchStatic(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.cfg.Extract.UserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d fetching page", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// normalize applies the field caps and keeps only usable image URLs
func normalize(raw rawProduct, sourceURL string) *types.ProductRecord {
	rec := &types.ProductRecord{
		Title:       strings.TrimSpace(raw.Title),
		Description: truncate(strings.TrimSpace(raw.Description), maxDescription),
		Price:       strings.TrimSpace(raw.Price),
		SourceURL:   sourceURL,
	}
	if rec.Description == "" {
		rec.Description = "Amazing product"
	}

	seen := make(map[string]bool)
	for _, img := range raw.Images {
		if !strings.HasPrefix(img, "http://") && !strings.HasPrefix(img, "https://") {
			continue
		}
		if seen[img] {
			continue
		}
		seen[img] = true
		rec.Images = append(rec.Images, img)
		if len(rec.Images) == maxImages {
			break
		}
	}

	for _, f := range raw.Features {
		rec.Features = append(rec.Features, f)
		if len(rec.Features) == maxFeatures {
			break
		}
	}

	return rec
}

// truncate caps at max runes so multi-byte text is never cut mid-character
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
