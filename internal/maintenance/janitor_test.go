package maintenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"adpipe/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepRemovesOnlyStaleEntries(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Temp = t.TempDir()
	cfg.Maintenance.TempMaxAgeMin = 60

	stale := filepath.Join(cfg.Paths.Temp, "ad_old")
	require.NoError(t, os.MkdirAll(stale, 0755))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	fresh := filepath.Join(cfg.Paths.Temp, "ad_fresh")
	require.NoError(t, os.MkdirAll(fresh, 0755))

	j := New(cfg)
	removed := j.Sweep()

	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
}

func TestSweepMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Temp = filepath.Join(t.TempDir(), "does-not-exist")

	assert.Equal(t, 0, New(cfg).Sweep())
}

func TestStartStop(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Temp = t.TempDir()

	j := New(cfg)
	require.NoError(t, j.Start())
	j.Stop()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Maintenance.SweepCron = "not a schedule"
	cfg.Paths.Temp = t.TempDir()

	assert.Error(t, New(cfg).Start())
}
