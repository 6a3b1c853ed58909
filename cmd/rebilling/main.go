package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"deal-rebilling/internal/config"
	"deal-rebilling/internal/gateway"
	"deal-rebilling/internal/store"
	"deal-rebilling/internal/usecase"
)

const appName = "rebilling"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	var configPath string
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Deal rebilling workbook processor",
		Long:          "Enriches raw deal workbooks with rebilling costs and reconciles formatted workbooks against reference extracts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			setupLogger(cfg.Log)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(
		newServeCmd(&cfg),
		newProcessCmd(&cfg),
		newCompareCmd(&cfg),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogger(c config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// services is the wired application core shared by every command.
type services struct {
	enrichment *usecase.EnrichmentUseCase
	comparison *usecase.ComparisonUseCase
	store      *store.TokenStore
}

func newServices(cfg config.Config) services {
	// --- Dependency Injection (Wiring the application) ---

	// 1. Create the gateways (the outermost layer)
	sheets := gateway.NewExcelSheetRepository()
	renderer := gateway.NewExcelWorkbookRenderer()
	datasets := gateway.NewExcelDatasetRepository()
	exporter := gateway.NewResultExportWriter()
	results := store.New(store.Options{TTL: cfg.Store.TTL, MaxEntries: cfg.Store.MaxEntries})

	// 2. Create the usecases and inject the gateways (the core logic layer)
	return services{
		enrichment: usecase.NewEnrichmentUseCase(sheets, renderer),
		comparison: usecase.NewComparisonUseCase(datasets, results, exporter, usecase.ReconciliationOptions{
			AnomalyLimit:     cfg.Analysis.AnomalyLimit,
			AnomalyThreshold: cfg.Analysis.Threshold(),
			CostAnomalySigma: cfg.Analysis.CostAnomalySigma,
		}),
		store: results,
	}
}
