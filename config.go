package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings. Values come from config.yaml (path
// overridable via CONFIG_PATH) with environment variables taking precedence.
type Config struct {
	ListenAddr    string   `yaml:"listen_addr"`
	CascadePath   string   `yaml:"cascade_path"`
	ModelPath     string   `yaml:"model_path"`
	ClassNames    []string `yaml:"class_names"`
	ConfThreshold float32  `yaml:"conf_threshold"`
	IouThreshold  float32  `yaml:"iou_threshold"`
	Languages     []string `yaml:"languages"`
	SinkPath      string   `yaml:"sink_path"`
	JWTSecret     string   `yaml:"jwt_secret"`
	Debug         bool     `yaml:"debug"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:  ":8081",
		CascadePath: "haarcascade_frontalface_default.xml",
		ModelPath:   "Model/best.onnx",
		Languages:   []string{"eng"},
		SinkPath:    "IdCardData.csv",
	}
}

func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CASCADE_PATH"); v != "" {
		cfg.CascadePath = v
	}
	if v := os.Getenv("ONNX_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("CLASS_NAMES"); v != "" {
		cfg.ClassNames = strings.Split(v, ",")
	}
	if v := os.Getenv("CONF_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return cfg, fmt.Errorf("parse CONF_THRESHOLD %q: %w", v, err)
		}
		cfg.ConfThreshold = float32(f)
	}
	if v := os.Getenv("IOU_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return cfg, fmt.Errorf("parse IOU_THRESHOLD %q: %w", v, err)
		}
		cfg.IouThreshold = float32(f)
	}
	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		cfg.Languages = strings.Split(v, ",")
	}
	if v := os.Getenv("SINK_PATH"); v != "" {
		cfg.SinkPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.ToLower(os.Getenv("DEBUG")); v == "1" || v == "true" || v == "yes" {
		cfg.Debug = true
	}
	return cfg, nil
}
