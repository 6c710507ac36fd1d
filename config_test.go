package main

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	// point CONFIG_PATH away from any config.yaml in the working directory
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("SINK_PATH", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ListenAddr != ":8081" || cfg.SinkPath != "IdCardData.csv" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("jwt secret should default empty, got %q", cfg.JWTSecret)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("CONF_THRESHOLD", "0.45")
	t.Setenv("IOU_THRESHOLD", "0.6")
	t.Setenv("CLASS_NAMES", "upper,lower")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ConfThreshold != 0.45 {
		t.Fatalf("ConfThreshold = %v", cfg.ConfThreshold)
	}
	if cfg.IouThreshold != 0.6 {
		t.Fatalf("IouThreshold = %v", cfg.IouThreshold)
	}
	if len(cfg.ClassNames) != 2 || cfg.ClassNames[0] != "upper" || cfg.ClassNames[1] != "lower" {
		t.Fatalf("ClassNames = %v", cfg.ClassNames)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoadConfigBadThreshold(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("CONF_THRESHOLD", "not-a-number")

	if _, err := loadConfig(); err == nil {
		t.Fatalf("expected error for malformed CONF_THRESHOLD")
	}
}
