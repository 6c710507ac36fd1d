package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
	"cnicdet/pkg/qrscan"
	"cnicdet/pkg/sink"
	"cnicdet/pkg/textread"
	"cnicdet/pkg/vision"
)

var jwtSecret []byte // from jwt_secret / JWT_SECRET; auth is disabled when empty

// pipe is the shared pipeline; the heavy capabilities behind it load once
// and are reused across requests.
var pipe *card.Pipeline

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()

	cfg, err := loadConfig()
	if err != nil {
		_ = logger.InitProduction()
		logger.S().Fatalw("config load failed", "err", err)
	}
	if cfg.Debug {
		_ = logger.InitDevelopment()
	} else {
		_ = logger.InitProduction()
	}
	defer logger.Sync()

	jwtSecret = []byte(cfg.JWTSecret)

	faces := vision.NewFaceDetector(cfg.CascadePath)
	defer faces.Close()
	regions := vision.NewRegionDetector(cfg.ModelPath, cfg.ClassNames, cfg.ConfThreshold, cfg.IouThreshold)
	defer regions.Close()
	reader := textread.NewReader(cfg.Languages...)
	defer reader.Close()

	pipe = card.NewPipeline(faces, regions, reader, qrscan.Decoder{}, sink.CSVSink{Path: cfg.SinkPath})

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	setupRoutes(r)

	logger.S().Infow("listening", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.S().Fatalw("server stopped", "err", err)
	}
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
