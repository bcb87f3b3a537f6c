package video

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"adpipe/internal/config"
	"adpipe/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// ErrRendererUnavailable is returned when ffmpeg is not on PATH
var ErrRendererUnavailable = fmt.Errorf("ffmpeg not found on PATH")

// visualStyle is one of the four fixed background looks. An empty caption
// means "use the product title".
type visualStyle struct {
	Name    string
	Color   string
	Caption string
}

var visualStyles = []visualStyle{
	{Name: "hero", Color: "#667eea"},
	{Name: "feature", Color: "#4facfe", Caption: "PREMIUM QUALITY"},
	{Name: "lifestyle", Color: "#43e97b", Caption: "EXPERIENCE MORE"},
	{Name: "cta", Color: "#fa709a", Caption: "GET YOURS NOW"},
}

// command is one candidate invocation of the rendering tool
type command struct {
	args []string
}

// Composer renders a script into a single video file. Each render step is an
// ordered list of candidate commands: attempted in order, first success wins,
// exhaustion is a terminal RenderError.
type Composer struct {
	cfg    *config.Config
	runner Runner
	jobs   *semaphore.Weighted
}

func New(cfg *config.Config, runner Runner) *Composer {
	return &Composer{
		cfg:    cfg,
		runner: runner,
		jobs:   semaphore.NewWeighted(int64(cfg.Video.MaxRenderJobs)),
	}
}

// CheckRenderer verifies the external rendering tool is available
func (c *Composer) CheckRenderer() error {
	if err := c.runner.LookPath("ffmpeg"); err != nil {
		return ErrRendererUnavailable
	}
	return nil
}

// Compose renders every scene over a cycled background visual and joins the
// clips into one artifact in the output directory. The per-invocation temp
// workspace is removed on success and failure alike.
func (c *Composer) Compose(ctx context.Context, product *types.ProductRecord, script *types.ScriptRecord) (*types.VideoArtifact, error) {
	if err := c.CheckRenderer(); err != nil {
		return nil, err
	}
	if err := c.jobs.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.jobs.Release(1)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Video.RenderTimeoutSec)*time.Second)
	defer cancel()

	id := fmt.Sprintf("ad_%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
	tempDir := filepath.Join(c.cfg.Paths.Temp, id)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.Warn().Err(err).Str("dir", tempDir).Msg("temp cleanup failed")
		}
	}()

	log.Info().Str("id", id).Str("product", product.Title).Msg("composing video")

	visuals, err := c.createVisuals(ctx, product, tempDir)
	if err != nil {
		return nil, err
	}

	clips, err := c.createSceneClips(ctx, script, visuals, tempDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(c.cfg.Paths.Output, id+".mp4")
	if err := c.assemble(ctx, clips, tempDir, outPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}

	log.Info().Str("id", id).Int64("bytes", info.Size()).Msg("video ready")

	return &types.VideoArtifact{
		ID:            id,
		FilePath:      outPath,
		Duration:      script.TotalDuration,
		FileSizeBytes: info.Size(),
		Metadata: types.ArtifactMetadata{
			ProductTitle: product.Title,
			ScriptTitle:  script.Title,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
			Quality:      "professional",
		},
	}, nil
}

// createVisuals renders the four styled background stills. A styled caption
// background falls back to a plain solid color; if both fail the asset is
// missing and composition must stop.
func (c *Composer) createVisuals(ctx context.Context, product *types.ProductRecord, tempDir string) ([]string, error) {
	size := fmt.Sprintf("%dx%d", c.cfg.Video.Width, c.cfg.Video.Height)
	visuals := make([]string, 0, len(visualStyles))

	for _, style := range visualStyles {
		caption := style.Caption
		if caption == "" {
			caption = product.Title
		}
		caption = sanitizeOverlayText(caption)
		outFile := filepath.Join(tempDir, "visual_"+style.Name+".png")

		colorInput := fmt.Sprintf("color=size=%s:color=%s", size, style.Color)
		drawtext := fmt.Sprintf(
			"drawtext=text='%s':fontsize=120:fontcolor=white:x=(w-text_w)/2:y=(h-text_h)/2:shadowcolor=black:shadowx=8:shadowy=8",
			caption,
		)

		candidates := []command{
			{args: []string{"-f", "lavfi", "-i", colorInput, "-vf", drawtext, "-frames:v", "1", "-y", outFile}},
			{args: []string{"-f", "lavfi", "-i", colorInput, "-frames:v", "1", "-y", outFile}},
		}
		if err := c.runFirst(ctx, "visual-"+style.Name, candidates); err != nil {
			return nil, err
		}
		visuals = append(visuals, outFile)
	}

	return visuals, nil
}

// createSceneClips renders one fixed-duration clip per scene, cycling through
// the background visuals. A text-overlay clip falls back to a bare background
// clip of the correct duration.
func (c *Composer) createSceneClips(ctx context.Context, script *types.ScriptRecord, visuals []string, tempDir string) ([]string, error) {
	scale := fmt.Sprintf("scale=%d:%d", c.cfg.Video.Width, c.cfg.Video.Height)
	clips := make([]string, 0, len(script.Scenes))

	for i, scene := range script.Scenes {
		visual := visuals[i%len(visuals)]
		outFile := filepath.Join(tempDir, fmt.Sprintf("scene_%02d.mp4", i))
		duration := strconv.Itoa(scene.Duration)
		text := sanitizeOverlayText(scene.Text)

		overlay := fmt.Sprintf(
			"%s,drawtext=text='%s':fontsize=100:fontcolor=white:x=(w-text_w)/2:y=h*0.7:box=1:boxcolor=black@0.8:boxborderw=20:shadowcolor=black:shadowx=6:shadowy=6",
			scale, text,
		)

		candidates := []command{
			{args: []string{
				"-loop", "1", "-i", visual,
				"-vf", overlay,
				"-t", duration,
				"-c:v", "libx264", "-pix_fmt", "yuv420p",
				"-r", strconv.Itoa(c.cfg.Video.FPS),
				"-y", outFile,
			}},
			{args: []string{
				"-loop", "1", "-i", visual,
				"-t", duration,
				"-c:v", "libx264", "-pix_fmt", "yuv420p",
				"-y", outFile,
			}},
		}
		if err := c.runFirst(ctx, fmt.Sprintf("scene-%d-%s", i, scene.Type), candidates); err != nil {
			return nil, err
		}
		clips = append(clips, outFile)
	}

	return clips, nil
}

// assemble joins the ordered clips into the output file. Single-clip scripts
// skip concatenation entirely. The concat demuxer is tried first, then a
// filter-graph concat that takes each clip as a discrete input.
func (c *Composer) assemble(ctx context.Context, clips []string, tempDir, outPath string) error {
	if len(clips) == 1 {
		return copyFile(clips[0], outPath)
	}

	listFile := filepath.Join(tempDir, "scenes.txt")
	var lines []string
	for _, clip := range clips {
		lines = append(lines, fmt.Sprintf("file '%s'", clip))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	demuxer := command{args: []string{
		"-f", "concat", "-safe", "0", "-i", listFile,
		"-c:v", "libx264", "-preset", "medium", "-crf", "20",
		"-pix_fmt", "yuv420p", "-movflags", "+faststart",
		"-y", outPath,
	}}

	filterArgs := []string{}
	var filter strings.Builder
	for i, clip := range clips {
		filterArgs = append(filterArgs, "-i", clip)
		fmt.Fprintf(&filter, "[%d:v]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=0[outv]", len(clips))
	filterArgs = append(filterArgs,
		"-filter_complex", filter.String(),
		"-map", "[outv]",
		"-c:v", "libx264", "-preset", "medium", "-crf", "20",
		"-y", outPath,
	)

	return c.runFirst(ctx, "concat", []command{demuxer, {args: filterArgs}})
}

// runFirst attempts each candidate in order; the first success wins and
// exhaustion yields a typed RenderError for the step.
func (c *Composer) runFirst(ctx context.Context, step string, candidates []command) error {
	var lastErr error
	for i, cand := range candidates {
		err := c.runner.Run(ctx, "ffmpeg", cand.args...)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn().Err(err).Str("step", step).Int("candidate", i).Msg("render candidate failed")
	}
	return &RenderError{Step: step, Err: lastErr}
}

// ProbeDuration reads a video file's duration in seconds via ffprobe
func (c *Composer) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := c.runner.Output(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
