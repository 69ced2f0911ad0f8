// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/fincat/internal/config"
	"fjacquet/fincat/internal/container"
	"fjacquet/fincat/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer is built on first use by GetContainer.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fincat",
		Short: "Categorize bank statement transactions (CSV/OFX) with a language model.",
		Long: `fincat reads bank statements exported as CSV or OFX, normalizes their
transactions and asks a Gemini model to assign a spending category to each
one. It runs as a command-line tool or as a Telegram bot.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fincat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			CloseContainer()
			return LoadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			CloseContainer()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: $HOME/.fincat/config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

// LoadConfig reads the configuration, applies flag overrides and installs
// the configured logger as the default one.
func LoadConfig() error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	AppConfig = cfg
	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	logging.SetDefault(Log)
	return nil
}

// GetContainer returns the application container, building it on first use.
func GetContainer(ctx context.Context, opts ...container.Option) (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	opts = append([]container.Option{container.WithLogger(Log)}, opts...)
	c, err := container.NewContainer(ctx, AppConfig, opts...)
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}

// CloseContainer releases the container, if one was built.
func CloseContainer() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close container")
	}
	AppContainer = nil
}
