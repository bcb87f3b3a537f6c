package pipeline

import (
	"context"
	"fmt"
	"time"

	"adpipe/internal/config"
	"adpipe/internal/types"

	"github.com/rs/zerolog/log"
)

// Progress steps as they appear on the wire
const (
	StepScraping  = "scraping"
	StepScripting = "script"
	StepRendering = "video"
	StepComplete  = "complete"
	StepError     = "error"
)

// Event is one progress notification in a streaming run
type Event struct {
	Step     string                `json:"step"`
	Message  string                `json:"message,omitempty"`
	Progress int                   `json:"progress"`
	Result   *types.PipelineResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Extractor never fails outward; it always produces a usable record
type Extractor interface {
	Extract(ctx context.Context, url string) *types.ProductRecord
}

type Synthesizer interface {
	Synthesize(product *types.ProductRecord) *types.ScriptRecord
}

type Composer interface {
	Compose(ctx context.Context, product *types.ProductRecord, script *types.ScriptRecord) (*types.VideoArtifact, error)
}

// Orchestrator drives the three stages behind a single operation. There are
// no inter-stage retries: extraction and synthesis are internally
// fault-tolerant, only rendering can fail terminally.
type Orchestrator struct {
	extractor     Extractor
	synth         Synthesizer
	composer      Composer
	timeout       time.Duration
	scriptTimeout time.Duration
}

func New(cfg *config.Config, ex Extractor, sy Synthesizer, co Composer) *Orchestrator {
	return &Orchestrator{
		extractor:     ex,
		synth:         sy,
		composer:      co,
		timeout:       time.Duration(cfg.Pipeline.TimeoutSec) * time.Second,
		scriptTimeout: time.Duration(cfg.Script.TimeoutSec) * time.Second,
	}
}

// synthesize bounds the script stage with its own budget. The engine itself
// is not context-aware, so the stage runs in a goroutine and loses the race
// against the deadline.
func (o *Orchestrator) synthesize(ctx context.Context, product *types.ProductRecord) (*types.ScriptRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, o.scriptTimeout)
	defer cancel()

	done := make(chan *types.ScriptRecord, 1)
	go func() { done <- o.synth.Synthesize(product) }()

	select {
	case script := <-done:
		return script, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("script generation timed out: %w", ctx.Err())
	}
}

// Run executes the full pipeline atomically and returns the combined result
func (o *Orchestrator) Run(ctx context.Context, rawURL string) (result *types.PipelineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("pipeline panic")
			result, err = nil, fmt.Errorf("internal pipeline error")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	product := o.extractor.Extract(ctx, rawURL)
	script, err := o.synthesize(ctx, product)
	if err != nil {
		return nil, err
	}
	video, err := o.composer.Compose(ctx, product, script)
	if err != nil {
		return nil, err
	}
	return &types.PipelineResult{Product: product, Script: script, Video: video}, nil
}

// RunStream executes the pipeline and emits ordered progress events. The
// terminal event is either complete (with the result) or error; emit is
// never called after a terminal event.
func (o *Orchestrator) RunStream(ctx context.Context, rawURL string, emit func(Event)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("pipeline panic")
			emit(Event{Step: StepError, Error: "internal pipeline error"})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	log.Info().Str("url", rawURL).Msg("pipeline starting")

	emit(Event{Step: StepScraping, Message: "Extracting product information...", Progress: 10})
	product := o.extractor.Extract(ctx, rawURL)
	if product.IsSynthetic {
		emit(Event{Step: StepScraping, Message: "Using demo product data (scraping protection detected)...", Progress: 20})
	}

	emit(Event{Step: StepScripting, Message: "Generating video script...", Progress: 40})
	script, err := o.synthesize(ctx, product)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("pipeline failed during scripting")
		emit(Event{Step: StepError, Error: err.Error()})
		return
	}

	emit(Event{Step: StepRendering, Message: "Creating video advertisement...", Progress: 70})
	video, err := o.composer.Compose(ctx, product, script)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("pipeline failed during rendering")
		emit(Event{Step: StepError, Error: err.Error()})
		return
	}

	log.Info().Str("url", rawURL).Str("video", video.ID).Msg("pipeline complete")
	emit(Event{
		Step:     StepComplete,
		Progress: 100,
		Result:   &types.PipelineResult{Product: product, Script: script, Video: video},
	})
}
