package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adpipe/internal/config"
	"adpipe/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every invocation and fails any command matching failOn.
// Successful runs create the file named by the final argument so downstream
// steps can see it.
type fakeRunner struct {
	calls       [][]string
	failOn      func(args []string) bool
	lookPathErr error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.failOn != nil && f.failOn(args) {
		return errors.New("simulated render failure")
	}
	out := args[len(args)-1]
	return os.WriteFile(out, []byte("frame"), 0644)
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte("21.0\n"), nil
}

func (f *fakeRunner) LookPath(name string) error { return f.lookPathErr }

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Temp = filepath.Join(t.TempDir(), "temp")
	cfg.Paths.Output = filepath.Join(t.TempDir(), "outputs")
	require.NoError(t, os.MkdirAll(cfg.Paths.Temp, 0755))
	return cfg
}

func testScript(scenes int) *types.ScriptRecord {
	rec := &types.ScriptRecord{Title: "Test Ad"}
	start := 0
	for i := 0; i < scenes; i++ {
		rec.Scenes = append(rec.Scenes, types.Scene{
			ID: i + 1, StartTime: start, Duration: 5,
			Type: types.SceneHook, Text: "scene text",
		})
		start += 5
		rec.TotalDuration += 5
	}
	return rec
}

func TestCheckRenderer(t *testing.T) {
	c := New(testConfig(t), &fakeRunner{})
	assert.NoError(t, c.CheckRenderer())

	missing := New(testConfig(t), &fakeRunner{lookPathErr: errors.New("not found")})
	assert.ErrorIs(t, missing.CheckRenderer(), ErrRendererUnavailable)
}

func TestComposeProducesArtifact(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	c := New(cfg, runner)

	product := &types.ProductRecord{Title: "Ceramic Mug", Price: "$18"}
	script := testScript(4)

	artifact, err := c.Compose(context.Background(), product, script)
	require.NoError(t, err)

	assert.Equal(t, script.TotalDuration, artifact.Duration)
	assert.Equal(t, "Ceramic Mug", artifact.Metadata.ProductTitle)
	assert.True(t, strings.HasPrefix(artifact.ID, "ad_"))
	assert.FileExists(t, artifact.FilePath)
	assert.Positive(t, artifact.FileSizeBytes)

	// per-invocation scratch dir is removed
	entries, err := os.ReadDir(cfg.Paths.Temp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComposeFallsBackWhenOverlayFails(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{
		failOn: func(args []string) bool { return hasFlag(args, "-vf") },
	}
	c := New(cfg, runner)

	_, err := c.Compose(context.Background(), &types.ProductRecord{Title: "Mug"}, testScript(2))
	require.NoError(t, err)

	// every -vf attempt was followed by a plain retry
	fallbacks := 0
	for _, call := range runner.calls {
		if !hasFlag(call, "-vf") && hasFlag(call, "-frames:v") {
			fallbacks++
		}
	}
	assert.Equal(t, len(visualStyles), fallbacks)
}

func TestComposeReturnsRenderErrorOnExhaustion(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{
		failOn: func(args []string) bool { return true },
	}
	c := New(cfg, runner)

	_, err := c.Compose(context.Background(), &types.ProductRecord{Title: "Mug"}, testScript(2))
	require.Error(t, err)

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "visual-hero", rerr.Step)

	// scratch dir is removed on failure too
	entries, readErr := os.ReadDir(cfg.Paths.Temp)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestComposeSingleSceneSkipsConcat(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{}
	c := New(cfg, runner)

	artifact, err := c.Compose(context.Background(), &types.ProductRecord{Title: "Mug"}, testScript(1))
	require.NoError(t, err)
	assert.FileExists(t, artifact.FilePath)

	for _, call := range runner.calls {
		assert.False(t, hasFlag(call, "-filter_complex"))
		assert.NotContains(t, call, "concat")
	}
}

func TestComposeWithoutRenderer(t *testing.T) {
	c := New(testConfig(t), &fakeRunner{lookPathErr: errors.New("not found")})
	_, err := c.Compose(context.Background(), &types.ProductRecord{Title: "Mug"}, testScript(2))
	assert.ErrorIs(t, err, ErrRendererUnavailable)
}

func TestProbeDuration(t *testing.T) {
	c := New(testConfig(t), &fakeRunner{})
	dur, err := c.ProbeDuration(context.Background(), "x.mp4")
	require.NoError(t, err)
	assert.Equal(t, 21.0, dur)
}
