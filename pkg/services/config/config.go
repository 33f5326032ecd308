package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Dataset struct {
	Path   string `mapstructure:"path" validate:"required"`
	Format string `mapstructure:"format"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Trends struct {
	DefaultWindow int `mapstructure:"default_window"`
}

type Forecast struct {
	DefaultHorizon int `mapstructure:"default_horizon"`
	MinPoints      int `mapstructure:"min_points"`
}

type Config struct {
	Dataset  Dataset  `mapstructure:"dataset"`
	DB       DB       `mapstructure:"db"`
	Server   Server   `mapstructure:"server"`
	Trends   Trends   `mapstructure:"trends"`
	Forecast Forecast `mapstructure:"forecast"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("db.path", ":memory:")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("trends.default_window", 7)
	v.SetDefault("forecast.default_horizon", 30)
	v.SetDefault("forecast.min_points", 3)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("dataset.path is required")
	}
	return &cfg, nil
}
