package config

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Extract     ExtractConfig     `yaml:"extract"`
	Script      ScriptConfig      `yaml:"script"`
	Video       VideoConfig       `yaml:"video"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Paths       PathsConfig       `yaml:"paths"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExtractConfig struct {
	TimeoutSec     int    `yaml:"timeout_sec"`
	UserAgent      string `yaml:"user_agent"`
	MaxSessions    int    `yaml:"max_sessions"`
	BrowserEnabled bool   `yaml:"browser_enabled"`
}

type ScriptConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
}

type PipelineConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
}

type VideoConfig struct {
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	FPS              int `yaml:"fps"`
	RenderTimeoutSec int `yaml:"render_timeout_sec"`
	MaxRenderJobs    int `yaml:"max_render_jobs"`
}

type MaintenanceConfig struct {
	SweepCron     string `yaml:"sweep_cron"`
	TempMaxAgeMin int    `yaml:"temp_max_age_min"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

// Load reads the YAML config and fills in defaults for anything unset
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a usable config without a file on disk
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Extract.TimeoutSec == 0 {
		c.Extract.TimeoutSec = 30
	}
	if c.Extract.UserAgent == "" {
		c.Extract.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Extract.MaxSessions == 0 {
		c.Extract.MaxSessions = 2
	}
	if c.Script.TimeoutSec == 0 {
		c.Script.TimeoutSec = 60
	}
	if c.Video.Width == 0 {
		c.Video.Width = 1080
	}
	if c.Video.Height == 0 {
		c.Video.Height = 1920
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.RenderTimeoutSec == 0 {
		c.Video.RenderTimeoutSec = 300
	}
	if c.Video.MaxRenderJobs == 0 {
		c.Video.MaxRenderJobs = runtime.NumCPU()
	}
	if c.Pipeline.TimeoutSec == 0 {
		c.Pipeline.TimeoutSec = 600
	}
	if c.Maintenance.SweepCron == "" {
		c.Maintenance.SweepCron = "*/30 * * * *"
	}
	if c.Maintenance.TempMaxAgeMin == 0 {
		c.Maintenance.TempMaxAgeMin = 60
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "outputs"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "temp"
	}
}
