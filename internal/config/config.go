// Package config layers defaults, an optional config file, BATCHSUB_*
// environment variables and command-line flags into one settings value.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	EnvPrefix = "BATCHSUB"
	FileName  = "batchsub"
)

// Config is the flattened settings of one invocation.
type Config struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	PromptFile   string        `mapstructure:"prompt_file"`
	Source       string        `mapstructure:"source"`
	Target       string        `mapstructure:"target"`
	BatchSize    int           `mapstructure:"batch_size"`
	Delay        time.Duration `mapstructure:"delay"`
	Temperature  float64       `mapstructure:"temperature"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is used as-is when set; a missing file is then an error.
	ConfigFile string
	// EnvFile is a dotenv file; ".env" in the working directory is tried
	// when empty and its absence is ignored.
	EnvFile string
	// Flags are bound over every other source when they were set explicitly.
	Flags *pflag.FlagSet
}

// flagKeys maps config keys to command-line flag names.
var flagKeys = map[string]string{
	"provider":    "provider",
	"model":       "model",
	"base_url":    "base-url",
	"prompt_file": "prompt-file",
	"source":      "source",
	"target":      "target",
	"batch_size":  "batch-size",
	"delay":       "delay",
	"temperature": "temperature",
	"log_level":   "log-level",
	"log_file":    "log-file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("system_prompt", "")
	v.SetDefault("prompt_file", "")
	v.SetDefault("source", "auto")
	v.SetDefault("target", "en")
	v.SetDefault("batch_size", 5)
	v.SetDefault("delay", time.Second)
	v.SetDefault("temperature", 0.3)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load reads configuration from defaults, file, environment and flags, in
// increasing order of precedence.
func Load(opts Options) (*Config, error) {
	if err := LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	// BATCHSUB_MODEL, BATCHSUB_BATCH_SIZE, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, apperrors.New(apperrors.KindConfig, "Config file could not be read.", fmt.Errorf("reading config: %w", err))
		}
		logger.Debug("No config file found, using defaults and environment variables")
	} else {
		logger.Debug("Loaded config file", "path", v.ConfigFileUsed())
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, apperrors.Config(fmt.Errorf("binding flag %s: %w", name, err))
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.New(apperrors.KindConfig, "Config values have the wrong type.", fmt.Errorf("unmarshalling config: %w", err))
	}
	cfg.normalize()
	cfg.APIKey = resolveEnvRef(cfg.APIKey)

	if cfg.PromptFile != "" {
		data, err := os.ReadFile(cfg.PromptFile)
		if err != nil {
			return nil, apperrors.New(apperrors.KindConfig, fmt.Sprintf("Prompt file could not be read: %s", cfg.PromptFile), err)
		}
		cfg.SystemPrompt = string(data)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set. An explicit path must exist.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return apperrors.New(apperrors.KindConfig, fmt.Sprintf("Env file not found: %s", path), err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return apperrors.New(apperrors.KindConfig, fmt.Sprintf("Env file could not be parsed: %s", path), err)
	}
	logger.Debug("Loaded env file", "path", path)
	return nil
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Model = strings.TrimSpace(c.Model)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Source = strings.TrimSpace(c.Source)
	c.Target = strings.TrimSpace(c.Target)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Provider == "deepseek" || c.Provider == "openai-compatible" {
		c.Provider = ProviderOpenAI
	}
}

// Validate rejects unknown providers. Numeric ranges are checked by the
// pipeline, which owns them.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return apperrors.New(apperrors.KindConfig,
			fmt.Sprintf("Unknown provider %q (want %s or %s).", c.Provider, ProviderOpenAI, ProviderGemini), nil)
	}
	if c.BaseURL != "" && c.Provider == ProviderGemini {
		return apperrors.New(apperrors.KindConfig, "base_url is only supported by the openai provider.", nil)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.New(apperrors.KindConfig, fmt.Sprintf("Unknown log level %q.", c.LogLevel), nil)
	}
	return nil
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the named env var.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}
