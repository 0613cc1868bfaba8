// Command apiserver runs the ChemDraw AI HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/ChemDraw-AI/internal/app"
	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// A missing file falls back to environment and defaults.
	watchPath := *configPath
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		watchPath = ""
		if cfg, err = config.LoadFromEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ChemDraw AI API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Int("metrics_port", cfg.Metrics.Port),
	)

	a, err := app.New(ctx, cfg, logger, app.WithVersion(version))
	if err != nil {
		logger.Error("failed to initialize application", logging.Err(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx, watchPath); err != nil {
		logger.Error("server stopped with error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("servers stopped")
}

// loadConfig returns nil without error when path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return config.Load(path)
}

//Personal.AI order the ending
