package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func emptyDirViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(emptyDirViper(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.App.Version != "0.1.0" {
		t.Fatalf("expected version 0.1.0, got %s", cfg.App.Version)
	}
	if cfg.CORS.AllowOrigins != "http://localhost:3000" {
		t.Fatalf("expected frontend origin, got %s", cfg.CORS.AllowOrigins)
	}
	if !cfg.CORS.AllowCredentials {
		t.Fatal("expected credentials to be allowed")
	}
	if cfg.CORS.AllowHeaders != "" {
		t.Fatalf("expected empty allow_headers (reflect request), got %q", cfg.CORS.AllowHeaders)
	}
	if cfg.Server.Addr() != ":8000" {
		t.Fatalf("expected :8000, got %s", cfg.Server.Addr())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: 9001\ncors:\n  allow_origins: https://habits.example\n"
	if err := os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.CORS.AllowOrigins != "https://habits.example" {
		t.Fatalf("expected origin from file, got %s", cfg.CORS.AllowOrigins)
	}
	// Keys absent from the file keep their defaults
	if cfg.App.Version != "0.1.0" || !cfg.CORS.AllowCredentials {
		t.Fatalf("expected defaults for unset keys, got %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HABITS_SERVER_PORT", "9100")
	t.Setenv("HABITS_APP_VERSION", "0.2.0")

	cfg, err := load(emptyDirViper(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected port 9100 from env, got %d", cfg.Server.Port)
	}
	if cfg.App.Version != "0.2.0" {
		t.Fatalf("expected version 0.2.0 from env, got %s", cfg.App.Version)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("server: [port"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if _, err := load(v); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
