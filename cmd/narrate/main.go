package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/ekisa-team/narrate/internal/backend"
	"github.com/ekisa-team/narrate/internal/backend/edge"
	"github.com/ekisa-team/narrate/internal/backend/polly"
	"github.com/ekisa-team/narrate/internal/config"
	"github.com/ekisa-team/narrate/internal/env"
	"github.com/ekisa-team/narrate/internal/envvar"
	"github.com/ekisa-team/narrate/internal/logger"
	httpserver "github.com/ekisa-team/narrate/internal/server/http"
	"github.com/ekisa-team/narrate/internal/service"
	"github.com/ekisa-team/narrate/internal/xfs"
)

func main() {
	var (
		flagConfigPath = flag.String("config", defaultConfigFile(), "Path to config file")
		flagPort       = flag.Int("port", 0, "HTTP port to listen on (overrides config and PORT)")
	)
	flag.Parse()

	environment := env.FromEnv()

	logFile := os.Getenv(envvar.NarrateLogFile)
	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(logFile != ""),
			logger.WithLogFile(logFile),
		),
	)

	if err := run(*flagConfigPath, *flagPort); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath = xfs.ExpandTilde(configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	backends := newRegistry(cfg)
	defer func() {
		if err := backends.Close(); err != nil {
			slog.Warn("Failed to close backends", "error", err)
		}
	}()

	converter, err := service.NewConverter(backends, cfg)
	if err != nil {
		return err
	}

	if xfs.Exists(configPath) {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config, err error) {
			if err != nil {
				slog.Error("Keeping previous config", "error", err)
				return
			}
			if err := converter.Apply(next); err != nil {
				slog.Error("Failed to apply reloaded config", "error", err)
			}
		})
		if err != nil {
			return err
		}
		defer watcher.Close()

		slog.Info("Config loaded successfully", "config", configPath)
	} else {
		slog.Info("Config file not found, using defaults", "config", configPath)
	}

	server := httpserver.NewServer(cfg, httpserver.NewRouter(converter, cfg))

	return server.Run(ctx)
}

// newRegistry registers every backend that can run on this host.
func newRegistry(cfg *config.Config) *backend.Registry {
	registry := backend.NewRegistry()

	edgeBackend, err := edge.NewBackend(cfg.Synthesis.Edge.BinPath, cfg.SynthesisTimeout(), cfg.Synthesis.Edge.Options)
	if err != nil {
		slog.Warn("edge-tts backend unavailable", "bin_path", cfg.Synthesis.Edge.BinPath, "error", err)
	} else if err := registry.Register(edgeBackend); err != nil {
		slog.Error("Failed to register backend", "provider", backend.ProviderEdge, "error", err)
	}

	region := cfg.Synthesis.Polly.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region != "" {
		sess, err := polly.NewSession(region, os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"))
		if err != nil {
			slog.Warn("Polly backend unavailable", "region", region, "error", err)
		} else if err := registry.Register(polly.NewBackend(sess, cfg.Synthesis.Polly.Engine)); err != nil {
			slog.Error("Failed to register backend", "provider", backend.ProviderPolly, "error", err)
		}
	}

	return registry
}

func defaultConfigFile() string {
	if p := os.Getenv(envvar.NarrateConfig); p != "" {
		return p
	}
	return path.Join(config.DefaultConfigPath(), "config.yaml")
}

