// Package main provides the CLI entry point for sheetflow.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"
)

var (
	headerMode  string
	maxScanRows int
	separated   bool
)

func main() {
	// Optional .env for local defaults; absence is fine.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "sheetflow",
		Short: "Turn irregular spreadsheet workbooks into flat record streams",
		Long: `sheetflow infers header boundaries in irregular workbooks, persists
the inference as a config document, and later extracts each sheet into
a stream of flat JSON records.`,
		SilenceUsage: true,
	}

	generateCmd := &cobra.Command{
		Use:   "generate-config [input.xlsx] [config.json]",
		Short: "Analyze a workbook and write its extraction config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], args[1], logger)
		},
	}
	generateCmd.Flags().StringVar(&headerMode, "mode", "row", "Header mode: row or column")
	generateCmd.Flags().IntVar(&maxScanRows, "max-scan-rows",
		envInt("SHEETFLOW_MAX_SCAN_ROWS", parser.DefaultMaxScanRows),
		"Leading rows to examine during header detection")

	processCmd := &cobra.Command{
		Use:   "process [config.json] [output-dir]",
		Short: "Extract records from the workbook named by a config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], args[1], logger)
		},
	}
	processCmd.Flags().BoolVar(&separated, "separated", false,
		"Write one file per record instead of one JSONL file per sheet")

	rootCmd.AddCommand(generateCmd, processCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(inputPath, configPath string, logger *zap.Logger) error {
	mode, err := models.ParseHeaderMode(headerMode)
	if err != nil {
		return err
	}
	opts := sheetflow.DefaultOptions()
	opts.MaxScanRows = maxScanRows

	cfg, err := sheetflow.BuildConfig(inputPath, mode, nil, opts, logger)
	if err != nil {
		return fmt.Errorf("config generation failed: %w", err)
	}
	if err := sheetflow.SaveConfig(cfg, configPath); err != nil {
		return err
	}
	logger.Info("config written",
		zap.String("path", configPath),
		zap.Int("sheets", cfg.Sheets.Len()))
	return nil
}

func runProcess(configPath, outDir string, logger *zap.Logger) error {
	cfg, err := sheetflow.LoadConfig(configPath)
	if err != nil {
		return err
	}
	opts := sheetflow.DefaultOptions()
	opts.SeparatedOutput = separated

	report, err := sheetflow.ProcessWorkbook(cfg, outDir, opts, logger)
	if err != nil {
		return err
	}
	fmt.Printf("processed %d sheet(s), %d record(s) total\n",
		len(report.Results), report.TotalRecords())
	return nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl := os.Getenv("SHEETFLOW_LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("invalid SHEETFLOW_LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg.Build()
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
