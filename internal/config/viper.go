// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/fincat/internal/csvparser"
	"fjacquet/fincat/internal/parsererror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Model providers.
const (
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
)

// Archive backends. An empty provider disables archiving.
const (
	ArchiveNone  = ""
	ArchiveGCS   = "gcs"
	ArchiveAzure = "azure"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Encoding   string `mapstructure:"encoding" yaml:"encoding"`
		SampleSize int    `mapstructure:"sample_size" yaml:"sample_size"`
	} `mapstructure:"csv" yaml:"csv"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Provider       string `mapstructure:"provider" yaml:"provider"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		Project        string `mapstructure:"project" yaml:"project"`
		Location       string `mapstructure:"location" yaml:"location"`
	} `mapstructure:"ai" yaml:"ai"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Archive struct {
		Provider         string `mapstructure:"provider" yaml:"provider"`
		Bucket           string `mapstructure:"bucket" yaml:"bucket"`
		Container        string `mapstructure:"container" yaml:"container"`
		ConnectionString string `mapstructure:"connection_string" yaml:"-"`
		AccountURL       string `mapstructure:"account_url" yaml:"account_url"`
		Prefix           string `mapstructure:"prefix" yaml:"prefix"`
	} `mapstructure:"archive" yaml:"archive"`

	Bot struct {
		Token              string `mapstructure:"token" yaml:"-"`
		MaxFileSizeMB      int    `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
		WorkDir            string `mapstructure:"work_dir" yaml:"work_dir"`
		KeepFiles          bool   `mapstructure:"keep_files" yaml:"keep_files"`
		Debug              bool   `mapstructure:"debug" yaml:"debug"`
		PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds" yaml:"poll_timeout_seconds"`
	} `mapstructure:"bot" yaml:"bot"`

	Output struct {
		Format    string `mapstructure:"format" yaml:"format"`
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom is InitializeConfig with an explicit config file. An
// empty path searches the standard locations.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.fincat")
		v.AddConfigPath(".fincat")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("FINCAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed secrets used by the upstream SDKs
	bindings := map[string][]string{
		"ai.api_key":                {"FINCAT_AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"ai.project":                {"FINCAT_AI_PROJECT", "GOOGLE_CLOUD_PROJECT"},
		"bot.token":                 {"FINCAT_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
		"archive.connection_string": {"FINCAT_ARCHIVE_CONNECTION_STRING", "AZURE_STORAGE_CONNECTION_STRING"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variables: %v\n", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.encoding", csvparser.EncodingAuto)
	v.SetDefault("csv.sample_size", csvparser.DefaultSampleSize)

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.project", "")
	v.SetDefault("ai.location", "us-central1")

	v.SetDefault("categories.file", "")

	v.SetDefault("archive.provider", ArchiveNone)
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.container", "")
	v.SetDefault("archive.connection_string", "")
	v.SetDefault("archive.account_url", "")
	v.SetDefault("archive.prefix", "uploads")

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.max_file_size_mb", 10)
	v.SetDefault("bot.work_dir", "")
	v.SetDefault("bot.keep_files", false)
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.poll_timeout_seconds", 60)

	v.SetDefault("output.format", "json")
	v.SetDefault("output.directory", "")
}

// validateConfig validates the configuration values. Failures are
// *parsererror.ValidationError naming the offending key.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return invalid("log.level", "invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return invalid("log.format", "invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if !csvparser.ValidEncoding(config.CSV.Encoding) {
		return invalid("csv.encoding", "unsupported encoding: %s", config.CSV.Encoding)
	}
	if config.CSV.SampleSize < 64 {
		return invalid("csv.sample_size", "must be at least 64, got: %d", config.CSV.SampleSize)
	}

	if config.AI.Enabled {
		if config.AI.Provider != ProviderGemini && config.AI.Provider != ProviderGenAI {
			return invalid("ai.provider", "unknown provider %s (must be '%s' or '%s')", config.AI.Provider, ProviderGemini, ProviderGenAI)
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return invalid("ai.timeout_seconds", "must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	switch config.Archive.Provider {
	case ArchiveNone:
	case ArchiveGCS:
		if config.Archive.Bucket == "" {
			return invalid("archive.bucket", "required for the gcs archive")
		}
	case ArchiveAzure:
		if config.Archive.Container == "" {
			return invalid("archive.container", "required for the azure archive")
		}
		if config.Archive.ConnectionString == "" && config.Archive.AccountURL == "" {
			return invalid("archive.connection_string", "archive.connection_string or archive.account_url required for the azure archive")
		}
	default:
		return invalid("archive.provider", "unknown provider %s", config.Archive.Provider)
	}

	if config.Bot.MaxFileSizeMB < 1 || config.Bot.MaxFileSizeMB > 50 {
		return invalid("bot.max_file_size_mb", "must be between 1 and 50, got: %d", config.Bot.MaxFileSizeMB)
	}

	if config.Output.Format != "json" && config.Output.Format != "csv" {
		return invalid("output.format", "unknown format %s (must be 'json' or 'csv')", config.Output.Format)
	}

	return nil
}

func invalid(field, format string, args ...interface{}) error {
	return &parsererror.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MaxFileSize returns the bot upload limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return int64(c.Bot.MaxFileSizeMB) * 1024 * 1024
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
