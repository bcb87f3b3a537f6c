package maintenance

import (
	"os"
	"path/filepath"
	"time"

	"adpipe/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor periodically sweeps stale per-invocation scratch directories out
// of the temp dir. Composition removes its own workspace; the janitor only
// catches leftovers from crashed or killed invocations.
type Janitor struct {
	cron     *cron.Cron
	schedule string
	tempDir  string
	maxAge   time.Duration
}

func New(cfg *config.Config) *Janitor {
	return &Janitor{
		cron:     cron.New(),
		schedule: cfg.Maintenance.SweepCron,
		tempDir:  cfg.Paths.Temp,
		maxAge:   time.Duration(cfg.Maintenance.TempMaxAgeMin) * time.Minute,
	}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Sweep() }); err != nil {
		return err
	}
	j.cron.Start()
	log.Info().Str("schedule", j.schedule).Msg("temp janitor scheduled")
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep removes scratch entries older than the configured age and returns
// how many were removed.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.tempDir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.tempDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("janitor could not remove entry")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept stale temp entries")
	}
	return removed
}
