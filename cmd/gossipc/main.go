package main

import (
	"fmt"
	"io"
	"os"

	"gossipc/internal/blueprint"
	"gossipc/internal/compliance"
	"gossipc/internal/config"
	"gossipc/internal/logging"
	"gossipc/internal/schema"
	"gossipc/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:          "gossipc",
		Short:        "Compile GOSSIP actor sources into housing blueprints",
		SilenceUsage: true,
	}
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the compilation archive (SQLite); overrides config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}

// env bundles what every command needs.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	compiler *blueprint.Compiler
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &env{cfg: cfg, logger: logger, compiler: newCompiler(cfg, logger)}, nil
}

func newCompiler(cfg *config.Config, logger *zap.Logger) *blueprint.Compiler {
	return blueprint.NewCompiler(
		blueprint.WithMetadata(cfg.Metadata.Standard, cfg.Metadata.Compiler),
		blueprint.WithSynthesizer(schema.NewSynthesizer(cfg.Defaults)),
		blueprint.WithValidator(compliance.NewDefaultValidator(cfg.Policy)),
		blueprint.WithLogger(logger),
	)
}

func (e *env) openStore() (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(e.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", e.cfg.Storage.Path, err)
	}
	return store, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}

// readSource reads path, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✅ Wrote %s\n", path)
	return nil
}
