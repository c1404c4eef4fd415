package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
	"github.com/Baselsaber10/Hospital-Management-System/internal/paths"
	"github.com/Baselsaber10/Hospital-Management-System/internal/presentation"
)

const defaultConfigPath = ".hms/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "hms",
	Short: "Hospital management system",
	Long: `Manage the patients, doctors and appointments of a small clinic.

Run without a subcommand to start the interactive menu. Data is kept in
pipe-delimited text files in the data directory, or in SQLite with
--backend sqlite.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: teardownLogging,
	RunE:               runMenu,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .hms/config.yaml, then ~/.config/hms/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "directory holding the record files")
	rootCmd.PersistentFlags().String("backend", "", `storage backend: "text" or "sqlite"`)
	rootCmd.PersistentFlags().StringP("output", "o", "", `output format: "table", "json" or "yaml"`)
	rootCmd.PersistentFlags().Bool("debug", false, "write debug logs")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// A missing .env is normal; anything else is worth a note.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("backend", defaults.Backend)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("log_path", defaults.LogPath)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("flags", defaults.Flags)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	viper.SetEnvPrefix("HMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .hms/config.yaml (current directory)
		// 2. ~/.config/hms/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			viper.AddConfigPath(paths.ConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .hms/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigPath
}

func setupLogging(_ *cobra.Command, _ []string) error {
	debug := cfg.Debug || os.Getenv("HMS_DEBUG") != ""
	if !debug {
		return nil
	}
	logPath := os.Getenv("HMS_LOG")
	if logPath == "" {
		logPath = cfg.LogPath
	}
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "hms starting", "version", version, "config", viper.ConfigFileUsed(),
		"backend", cfg.Backend, "data_dir", cfg.DataDir)
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) error {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return nil
}

// withApp opens the clinic, runs fn and closes it again. The close error,
// which includes the final save, is returned when fn succeeded.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	reportLoad(cmd, a)
	defer func() {
		if closeErr := a.Close(ctx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, a)
}

// reportLoad prints a one-line warning to stderr when records were skipped
// or a store could not be read.
func reportLoad(cmd *cobra.Command, a *app.App) {
	report := a.LoadReport()
	if n := report.SkippedCount(); n > 0 {
		first := report.Skipped[0]
		cmd.PrintErrf("warning: skipped %d malformed record(s); first: %s line %d: %v\n",
			n, first.Entity, first.Line, first.Err)
	}
	for entity, err := range report.Failed {
		cmd.PrintErrf("warning: could not read %s store, changes will not be saved: %v\n", entity, err)
	}
}

func newFormatter(cmd *cobra.Command) (*presentation.Formatter, error) {
	return presentation.NewFormatter(cmd.OutOrStdout(), cfg.Output)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
