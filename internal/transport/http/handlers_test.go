package transporthttp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adpipe/internal/config"
	"adpipe/internal/pipeline"
	"adpipe/internal/store"
	"adpipe/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, url string) *types.ProductRecord {
	return &types.ProductRecord{Title: "Stub Product", SourceURL: url}
}

type stubScripts struct{}

func (stubScripts) Synthesize(product *types.ProductRecord) *types.ScriptRecord {
	return &types.ScriptRecord{
		Title:         product.Title + " Ad",
		TotalDuration: 21,
		Metadata:      types.ScriptMetadata{Generator: "local-intelligent-template"},
	}
}

func (stubScripts) SynthesizeAlternative(product *types.ProductRecord, previous *types.ScriptRecord) *types.ScriptRecord {
	return &types.ScriptRecord{
		Title:    product.Title + " Alternative Ad",
		Metadata: types.ScriptMetadata{Generator: "local-alternative-template"},
	}
}

type stubVideos struct {
	rendererErr error
	composeErr  error
}

func (s stubVideos) CheckRenderer() error { return s.rendererErr }

func (s stubVideos) Compose(ctx context.Context, product *types.ProductRecord, script *types.ScriptRecord) (*types.VideoArtifact, error) {
	if s.composeErr != nil {
		return nil, s.composeErr
	}
	return &types.VideoArtifact{ID: "ad_1", Duration: script.TotalDuration}, nil
}

type stubPipeline struct {
	events []pipeline.Event
}

func (s stubPipeline) RunStream(ctx context.Context, url string, emit func(pipeline.Event)) {
	for _, ev := range s.events {
		emit(ev)
	}
}

func testDeps(t *testing.T) *ServerDeps {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Output = filepath.Join(t.TempDir(), "outputs")
	cfg.Paths.Temp = filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.MkdirAll(cfg.Paths.Output, 0755))
	require.NoError(t, os.MkdirAll(cfg.Paths.Temp, 0755))

	return &ServerDeps{
		Cfg:       cfg,
		Extractor: stubExtractor{},
		Scripts:   stubScripts{},
		Videos:    stubVideos{},
		Pipeline: stubPipeline{events: []pipeline.Event{
			{Step: pipeline.StepScraping, Progress: 10},
			{Step: pipeline.StepComplete, Progress: 100, Result: &types.PipelineResult{}},
		}},
		Store: store.New(cfg),
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testDeps(t).Router(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestScrapeValidation(t *testing.T) {
	router := testDeps(t).Router()

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"empty url", `{"url": ""}`},
		{"no scheme", `{"url": "example.com/product"}`},
		{"bad scheme", `{"url": "ftp://example.com/product"}`},
		{"not json", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/scrape", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestScrape(t *testing.T) {
	rec := doJSON(t, testDeps(t).Router(), http.MethodPost, "/api/scrape",
		`{"url": "https://example.com/products/mug"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
}

func TestGenerateScriptRequiresProduct(t *testing.T) {
	router := testDeps(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/api/generate-script", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/generate-script",
		`{"productData": {"title": "Mug"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateAlternativeRequiresBoth(t *testing.T) {
	router := testDeps(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/api/generate-alternative-script",
		`{"productData": {"title": "Mug"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/generate-alternative-script",
		`{"productData": {"title": "Mug"}, "previousScript": {"title": "Mug Ad", "totalDuration": 21, "scenes": []}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateVideoWithoutRenderer(t *testing.T) {
	deps := testDeps(t)
	deps.Videos = stubVideos{rendererErr: errors.New("not found")}

	rec := doJSON(t, deps.Router(), http.MethodPost, "/api/generate-video",
		`{"productData": {"title": "Mug"}, "script": {"title": "Mug Ad", "totalDuration": 21, "scenes": []}}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateVideo(t *testing.T) {
	rec := doJSON(t, testDeps(t).Router(), http.MethodPost, "/api/generate-video",
		`{"productData": {"title": "Mug"}, "script": {"title": "Mug Ad", "totalDuration": 21, "scenes": []}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ad_1", data["videoId"])
	assert.Equal(t, "/videos/ad_1.mp4", data["videoUrl"])
}

func TestCreateVideoAdWithoutRenderer(t *testing.T) {
	deps := testDeps(t)
	deps.Videos = stubVideos{rendererErr: errors.New("not found")}

	rec := doJSON(t, deps.Router(), http.MethodPost, "/api/create-video-ad",
		`{"url": "https://example.com/products/mug"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// refused before streaming: a plain error envelope, no progress lines
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.NotEqual(t, "application/x-ndjson", rec.Header().Get("Content-Type"))
}

func TestCreateVideoAdStreamsNDJSON(t *testing.T) {
	rec := doJSON(t, testDeps(t).Router(), http.MethodPost, "/api/create-video-ad",
		`{"url": "https://example.com/products/mug"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	var events []pipeline.Event
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		var ev pipeline.Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}

	require.Len(t, events, 2)
	assert.Equal(t, pipeline.StepScraping, events[0].Step)
	assert.Equal(t, pipeline.StepComplete, events[1].Step)
	assert.Equal(t, 100, events[1].Progress)
}

func TestVideoEndpoints(t *testing.T) {
	deps := testDeps(t)
	router := deps.Router()
	require.NoError(t, os.WriteFile(
		filepath.Join(deps.Store.OutputDir(), "ad_1.mp4"), []byte("data"), 0644))

	rec := doJSON(t, router, http.MethodGet, "/api/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, env.Metadata["totalVideos"])

	rec = doJSON(t, router, http.MethodGet, "/api/videos/ad_1.mp4/metadata", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/videos/missing.mp4/metadata", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/videos/ad_1.mp4", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/videos/ad_1.mp4", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchDelete(t *testing.T) {
	deps := testDeps(t)
	router := deps.Router()
	require.NoError(t, os.WriteFile(
		filepath.Join(deps.Store.OutputDir(), "a.mp4"), []byte("data"), 0644))

	rec := doJSON(t, router, http.MethodDelete, "/api/videos", `{"filenames": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/videos",
		`{"filenames": ["a.mp4", "missing.mp4"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.EqualValues(t, 2, env.Metadata["requestedCount"])
	assert.EqualValues(t, 1, env.Metadata["successCount"])
}

func TestStats(t *testing.T) {
	rec := doJSON(t, testDeps(t).Router(), http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}
