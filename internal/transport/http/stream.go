package transporthttp

import (
	"encoding/json"
	"net/http"

	"adpipe/internal/pipeline"

	"github.com/rs/zerolog/log"
)

// HandleCreateVideoAd runs the full pipeline and streams newline-delimited
// JSON progress events over a chunked response. The terminal line is either
// a complete event carrying the result or an error event.
func (d *ServerDeps) HandleCreateVideoAd(w http.ResponseWriter, r *http.Request) {
	var req scrapeReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// renderer availability is a precondition, not a mid-stream discovery
	if err := d.Videos.CheckRenderer(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "video renderer is not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	emit := func(ev pipeline.Event) {
		if err := enc.Encode(ev); err != nil {
			log.Warn().Err(err).Msg("client dropped progress stream")
			return
		}
		flusher.Flush()
	}

	d.Pipeline.RunStream(r.Context(), req.URL, emit)
}
