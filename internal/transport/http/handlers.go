package transporthttp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"adpipe/internal/config"
	"adpipe/internal/pipeline"
	"adpipe/internal/store"
	"adpipe/internal/types"

	"github.com/rs/zerolog/log"
)

// Extractor never fails; synthetic records stand in for failed scrapes
type Extractor interface {
	Extract(ctx context.Context, url string) *types.ProductRecord
}

type ScriptEngine interface {
	Synthesize(product *types.ProductRecord) *types.ScriptRecord
	SynthesizeAlternative(product *types.ProductRecord, previous *types.ScriptRecord) *types.ScriptRecord
}

type VideoEngine interface {
	Compose(ctx context.Context, product *types.ProductRecord, script *types.ScriptRecord) (*types.VideoArtifact, error)
	CheckRenderer() error
}

type Pipeline interface {
	RunStream(ctx context.Context, url string, emit func(pipeline.Event))
}

// ServerDeps wires the API handlers to the engines behind them
type ServerDeps struct {
	Cfg       *config.Config
	Extractor Extractor
	Scripts   ScriptEngine
	Videos    VideoEngine
	Pipeline  Pipeline
	Store     *store.Store
}

// validateURL accepts only well-formed absolute http(s) URLs
func validateURL(raw string) error {
	if raw == "" {
		return errors.New("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("invalid URL format")
	}
	return nil
}

// --- Health ---

func (d *ServerDeps) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderer := "ready"
	if err := d.Videos.CheckRenderer(); err != nil {
		renderer = "ffmpeg-missing"
	}
	writeData(w, map[string]any{
		"status": "healthy",
		"services": map[string]string{
			"extractor":   "ready",
			"scripts":     "ready",
			"videoEngine": renderer,
		},
	}, map[string]any{"timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// --- Stage operations ---

type scrapeReq struct {
	URL string `json:"url"`
}

func (d *ServerDeps) HandleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := d.Extractor.Extract(r.Context(), req.URL)
	writeData(w, product, map[string]any{
		"scrapedAt": time.Now().UTC().Format(time.RFC3339),
		"synthetic": product.IsSynthetic,
	})
}

type scriptReq struct {
	Product *types.ProductRecord `json:"productData"`
}

func (d *ServerDeps) HandleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req scriptReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Product == nil || req.Product.Title == "" {
		writeError(w, http.StatusBadRequest, "product data with title is required")
		return
	}

	script := d.Scripts.Synthesize(req.Product)
	writeData(w, script, map[string]any{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"generator":   script.Metadata.Generator,
	})
}

type alternativeReq struct {
	Product  *types.ProductRecord `json:"productData"`
	Previous *types.ScriptRecord  `json:"previousScript"`
}

func (d *ServerDeps) HandleGenerateAlternative(w http.ResponseWriter, r *http.Request) {
	var req alternativeReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Product == nil || req.Previous == nil {
		writeError(w, http.StatusBadRequest, "product data and previous script are required")
		return
	}

	script := d.Scripts.SynthesizeAlternative(req.Product, req.Previous)
	writeData(w, script, map[string]any{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"type":        "alternative",
	})
}

type renderReq struct {
	Product *types.ProductRecord `json:"productData"`
	Script  *types.ScriptRecord  `json:"script"`
}

func (d *ServerDeps) HandleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req renderReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Product == nil || req.Script == nil {
		writeError(w, http.StatusBadRequest, "product data and script are required")
		return
	}
	if err := d.Videos.CheckRenderer(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "video renderer is not available")
		return
	}

	artifact, err := d.Videos.Compose(r.Context(), req.Product, req.Script)
	if err != nil {
		log.Error().Err(err).Msg("video generation failed")
		writeError(w, http.StatusInternalServerError, "failed to generate video: "+err.Error())
		return
	}

	writeData(w, artifactPayload(artifact), nil)
}

func artifactPayload(a *types.VideoArtifact) map[string]any {
	return map[string]any{
		"videoId":  a.ID,
		"videoUrl": "/videos/" + a.ID + ".mp4",
		"duration": a.Duration,
		"fileSize": a.FileSizeBytes,
		"metadata": a.Metadata,
	}
}

// --- Artifact store ---

func (d *ServerDeps) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := d.Store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}
	var total int64
	for _, v := range videos {
		total += v.Size
	}
	writeData(w, videos, map[string]any{
		"totalVideos": len(videos),
		"totalSize":   total,
	})
}

func (d *ServerDeps) HandleVideoMetadata(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	file, err := d.Store.Stat(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	writeData(w, file, nil)
}

func (d *ServerDeps) HandleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := d.Store.Delete(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	log.Info().Str("file", name).Msg("video deleted")
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "video deleted"})
}

type batchDeleteReq struct {
	Filenames []string `json:"filenames"`
}

func (d *ServerDeps) HandleDeleteVideos(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if len(req.Filenames) == 0 {
		writeError(w, http.StatusBadRequest, "array of filenames is required")
		return
	}

	results := d.Store.DeleteBatch(req.Filenames)
	success := 0
	for _, res := range results {
		if res.Success {
			success++
		}
	}
	writeData(w, results, map[string]any{
		"requestedCount": len(req.Filenames),
		"successCount":   success,
	})
}

func (d *ServerDeps) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.Store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}
	renderer := d.Videos.CheckRenderer() == nil
	writeData(w, map[string]any{
		"videos":   stats,
		"services": map[string]bool{"ffmpeg": renderer},
	}, nil)
}

// --- Router ---

func (d *ServerDeps) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", d.HandleHealth)
	mux.HandleFunc("POST /api/scrape", d.HandleScrape)
	mux.HandleFunc("POST /api/generate-script", d.HandleGenerateScript)
	mux.HandleFunc("POST /api/generate-alternative-script", d.HandleGenerateAlternative)
	mux.HandleFunc("POST /api/generate-video", d.HandleGenerateVideo)
	mux.HandleFunc("POST /api/create-video-ad", d.HandleCreateVideoAd)

	mux.HandleFunc("GET /api/videos", d.HandleListVideos)
	mux.HandleFunc("GET /api/videos/{name}/metadata", d.HandleVideoMetadata)
	mux.HandleFunc("DELETE /api/videos/{name}", d.HandleDeleteVideo)
	mux.HandleFunc("DELETE /api/videos", d.HandleDeleteVideos)
	mux.HandleFunc("GET /api/stats", d.HandleStats)

	mux.Handle("GET /videos/", http.StripPrefix("/videos/",
		http.FileServer(http.Dir(d.Store.OutputDir()))))

	return RequestLogger(mux)
}
