package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/cli"
	"github.com/awlens/awlens/internal/config"
	"github.com/awlens/awlens/internal/errs"
	"github.com/awlens/awlens/internal/logger"
	"github.com/awlens/awlens/internal/service"
	"github.com/awlens/awlens/internal/store"
	"github.com/awlens/awlens/internal/userconfig"
)

func main() {
	// .env is optional; real settings come from the config file and env.
	_ = godotenv.Load()

	configPath := os.Getenv("AWLENS_CONFIG")
	if configPath == "" {
		configPath = "config/local.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Debug("Starting awlens",
		zap.String("env", cfg.Env),
		zap.String("config_path", configPath),
	)

	// A missing event store is fatal only for event operations; project
	// and tag commands still work, so the error is carried, not raised.
	eventStore, storeErr := store.Open(cfg.Store.Path, log.Logger)
	if eventStore != nil {
		defer func() {
			if err := eventStore.Close(); err != nil {
				log.Error("Failed to close event store", zap.Error(err))
			}
		}()
	}

	userCfg, err := userconfig.Load(cfg.Analysis.ConfigPath, log.Logger)
	if err != nil {
		log.Fatal("Failed to load analysis config", zap.Error(err))
	}

	svc := service.NewAnalysisService(eventStore, storeErr, userCfg, service.Options{
		MergeGap:    time.Duration(cfg.Analysis.MergeGapSeconds) * time.Second,
		FocusMin:    time.Duration(cfg.Analysis.FocusMinMinutes) * time.Minute,
		FocusGap:    time.Duration(cfg.Analysis.FocusGapTolerance) * time.Second,
		TopN:        cfg.Analysis.TopN,
		WeekStart:   parseWeekday(cfg.Analysis.WeekStart),
		SampleLimit: cfg.Analysis.ReportSampleLimit,
	}, log.Logger)

	root := cli.New(svc, log.Logger).RootCommand()
	if err := root.Execute(); err != nil {
		var kindErr *errs.Error
		if errors.As(err, &kindErr) {
			fmt.Fprintf(os.Stderr, "Error (%s): %s\n", kindErr.Kind, kindErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseWeekday(name string) time.Weekday {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday
	case "saturday":
		return time.Saturday
	default:
		return time.Monday
	}
}
