package cli

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the merged configuration: flags override the config file, which overrides
// the defaults.
type Config struct {
	DataDir         string        `mapstructure:"data_dir"`
	Pipeline        string        `mapstructure:"pipeline"`
	RefreshSchedule string        `mapstructure:"refresh_schedule"`
	SaveDelay       time.Duration `mapstructure:"save_delay"`
	HideHelp        bool          `mapstructure:"hide_help"`
	LogLevel        string        `mapstructure:"log_level"`
	JSON            bool          `mapstructure:"json"`
}

const envPrefix = "PIPEGRAPH"

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("pipeline", "")
	v.SetDefault("refresh_schedule", "@every 2s")
	v.SetDefault("save_delay", time.Second)
	v.SetDefault("hide_help", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("json", false)
}

// loadConfig reads the config file, if any, and decodes the merged configuration.
func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pipegraph")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
