package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	App    AppConfig    `mapstructure:"app"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// CORSConfig mirrors the fields of fiber's cors middleware that the service sets.
// An empty AllowHeaders reflects whatever the preflight request asks for.
type CORSConfig struct {
	AllowOrigins     string `mapstructure:"allow_origins"`
	AllowCredentials bool   `mapstructure:"allow_credentials"`
	AllowMethods     string `mapstructure:"allow_methods"`
	AllowHeaders     string `mapstructure:"allow_headers"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("app.name", "Habit Tracker API")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("cors.allow_origins", "http://localhost:3000")
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.allow_methods", "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS")
	v.SetDefault("cors.allow_headers", "")
}

// Load reads app.yaml from the working directory (or the repo root) and
// HABITS_* environment variables on top of the defaults. A missing file is fine.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../..")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("habits")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
