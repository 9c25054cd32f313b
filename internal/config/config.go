// Package config loads hexroute settings from defaults, an optional JSON
// config file, and HEXROUTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/talgya/hexroute/internal/world"
)

// Config is the full application configuration.
type Config struct {
	LogLevel string    `mapstructure:"logLevel"`
	DBPath   string    `mapstructure:"dbPath"`
	API      APIConfig `mapstructure:"api"`
	Gen      GenConfig `mapstructure:"gen"`
}

// APIConfig holds HTTP query server settings.
type APIConfig struct {
	Port      int    `mapstructure:"port"`
	AdminKey  string `mapstructure:"adminKey"`  // Bearer token for POST endpoints. Empty = POST disabled.
	QueryRate int    `mapstructure:"queryRate"` // Path/reach queries per client per minute
}

// GenConfig mirrors world.GenConfig for file and env loading.
type GenConfig struct {
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	Seed          int64   `mapstructure:"seed"`
	SeaLevel      float64 `mapstructure:"seaLevel"`
	MountainLevel int     `mapstructure:"mountainLevel"`
	Rivers        int     `mapstructure:"rivers"`
}

// World converts to the generator's config.
func (g GenConfig) World() world.GenConfig {
	return world.GenConfig{
		Width:         g.Width,
		Height:        g.Height,
		Seed:          g.Seed,
		SeaLevel:      g.SeaLevel,
		MountainLevel: g.MountainLevel,
		Rivers:        g.Rivers,
	}
}

func setDefaults(v *viper.Viper) {
	gen := world.DefaultGenConfig()

	v.SetDefault("logLevel", "info")
	v.SetDefault("dbPath", "data/hexroute.db")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.adminKey", "")
	v.SetDefault("api.queryRate", 600)

	v.SetDefault("gen.width", gen.Width)
	v.SetDefault("gen.height", gen.Height)
	v.SetDefault("gen.seed", 42)
	v.SetDefault("gen.seaLevel", gen.SeaLevel)
	v.SetDefault("gen.mountainLevel", gen.MountainLevel)
	v.SetDefault("gen.rivers", gen.Rivers)
}

// Load reads configuration. If path is empty, hexroute.json is looked up in
// the working directory and $HOME/.hexroute; a missing file is not an error.
// An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HEXROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("hexroute")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hexroute")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Gen.Width <= 0 || cfg.Gen.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", cfg.Gen.Width, cfg.Gen.Height)
	}
	return &cfg, nil
}

// Level converts the configured log level to slog.Level.
func (c *Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
