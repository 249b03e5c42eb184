// Package config resolves settings from flags, environment, an optional
// .env file and an optional YAML config file. Nothing is ever written back.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "N8N_DEBUGGER"

	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyFormat    = "format"
	KeyFilter    = "filter"
	KeyNoHint    = "no_hint"
)

type Config struct {
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn warning error disabled"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`
	Format    string `mapstructure:"format" validate:"oneof=console json yaml junit"`
	Filter    string `mapstructure:"filter"`
	NoHint    bool   `mapstructure:"no_hint"`
}

var validate = validator.New()

// Setup registers defaults and environment bindings on v. LOG_LEVEL is
// honoured alongside the prefixed variable.
func Setup(v *viper.Viper) error {
	v.SetDefault(KeyLogLevel, "error")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyFormat, "console")
	v.SetDefault(KeyFilter, "")
	v.SetDefault(KeyNoHint, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindEnv(KeyLogLevel, EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
}

// LoadDotEnv loads path into the process environment when it exists.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the YAML config file at path. A missing file is only an
// error when required is set.
func ReadFile(v *viper.Viper, path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
