package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adpipe/internal/config"
	"adpipe/internal/extract"
	"adpipe/internal/logging"
	"adpipe/internal/maintenance"
	"adpipe/internal/pipeline"
	"adpipe/internal/script"
	"adpipe/internal/store"
	transporthttp "adpipe/internal/transport/http"
	"adpipe/internal/video"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "adpipe",
		Short: "Turn product page URLs into short vertical video ads",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			logging.Init()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	root.AddCommand(serveCmd(), generateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", cfgPath).Msg("config file not found, using defaults")
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func ensureDirs(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureDirs(cfg); err != nil {
				return err
			}

			extractor := extract.New(cfg)
			defer extractor.Close()
			scripts := script.New()
			composer := video.New(cfg, video.NewExecRunner())
			orch := pipeline.New(cfg, extractor, scripts, composer)

			janitor := maintenance.New(cfg)
			if err := janitor.Start(); err != nil {
				return fmt.Errorf("start janitor: %w", err)
			}
			defer janitor.Stop()

			deps := &transporthttp.ServerDeps{
				Cfg:       cfg,
				Extractor: extractor,
				Scripts:   scripts,
				Videos:    composer,
				Pipeline:  orch,
				Store:     store.New(cfg),
			}

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      deps.Router(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: time.Duration(cfg.Pipeline.TimeoutSec+30) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <url>",
		Short: "Run the full pipeline once for a single product URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureDirs(cfg); err != nil {
				return err
			}

			extractor := extract.New(cfg)
			defer extractor.Close()
			scripts := script.New()
			composer := video.New(cfg, video.NewExecRunner())
			orch := pipeline.New(cfg, extractor, scripts, composer)

			result, err := orch.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
