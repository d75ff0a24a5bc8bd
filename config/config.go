// Package config loads application configuration and initializes logging.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Dataset sources.
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// Config holds the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig selects where the price index is built from.
type DatasetConfig struct {
	Source string `yaml:"source" mapstructure:"source"` // "file" or "sqlite"
	Path   string `yaml:"path" mapstructure:"path"`     // CSV or XLSX, used when Source is "file"

	// ReloadInterval rebuilds the index periodically while serving. Zero disables.
	ReloadInterval time.Duration `yaml:"reload_interval" mapstructure:"reload_interval"`
}

// StoreConfig configures the SQLite observation store.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// Load reads config.yaml from the working directory (optional) and
// LANDPRICE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LANDPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.source", SourceFile)
	v.SetDefault("dataset.path", "land_prices.csv")
	v.SetDefault("dataset.reload_interval", "0s")
	v.SetDefault("store.sqlite_path", "landprice.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values Load cannot enforce through defaults.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceFile:
		if c.Dataset.Path == "" {
			return eris.New("config: dataset.path is required when dataset.source is file")
		}
	case SourceSQLite:
		if c.Store.SQLitePath == "" {
			return eris.New("config: store.sqlite_path is required when dataset.source is sqlite")
		}
	default:
		return eris.Errorf("config: unknown dataset.source %q", c.Dataset.Source)
	}
	if c.Dataset.ReloadInterval < 0 {
		return eris.Errorf("config: negative dataset.reload_interval %s", c.Dataset.ReloadInterval)
	}
	if c.Server.Port <= 0 {
		return eris.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	return nil
}

// InitLogger builds the global zap logger from cfg.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
