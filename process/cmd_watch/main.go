// Command cmd_watch watches a drop directory for card image pairs named
// <id>_front.<ext> / <id>_back.<ext>, runs the extraction pipeline over each
// completed pair and writes one CSV record per pair into the output
// directory. Events are debounced so half-written files are not picked up.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
	"cnicdet/pkg/qrscan"
	"cnicdet/pkg/sink"
	"cnicdet/pkg/textread"
	"cnicdet/pkg/vision"
)

func main() {
	dir := flag.String("dir", ".", "directory to watch for card image pairs")
	out := flag.String("out", ".", "directory for per-pair CSV records")
	workers := flag.Int("workers", 2, "concurrent pipeline workers")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if *debug {
		_ = logger.InitDevelopment()
	} else {
		_ = logger.InitProduction()
	}
	defer logger.Sync()

	pipe := buildPipeline()

	ids := make(chan string, 256)
	wg := startWorkers(pipe, *dir, *out, *workers, ids)

	// Pairs already sitting in the directory are processed first.
	for _, id := range completePairs(*dir) {
		ids <- id
	}

	err := watchDirectory(*dir, ids)

	// Drain in-flight pairs before exiting, even on a watch error.
	close(ids)
	wg.Wait()
	if err != nil {
		logger.S().Fatalw("watch failed", "dir", *dir, "err", err)
	}
}

// startWorkers launches n workers consuming pair ids until the channel is
// closed. The returned WaitGroup completes once every worker has drained.
func startWorkers(pipe *card.Pipeline, dir, out string, n int, ids <-chan string) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				processPair(pipe, dir, out, id)
			}
		}()
	}
	return &wg
}

// buildPipeline wires the capabilities from environment settings; the same
// variables the server understands apply here.
func buildPipeline() *card.Pipeline {
	cascade := envOr("CASCADE_PATH", "haarcascade_frontalface_default.xml")
	model := envOr("ONNX_MODEL_PATH", "Model/best.onnx")
	langs := strings.Split(envOr("OCR_LANGUAGES", "eng"), ",")

	faces := vision.NewFaceDetector(cascade)
	regions := vision.NewRegionDetector(model, nil, 0, 0)
	reader := textread.NewReader(langs...)
	// no shared sink: each pair gets its own CSV record
	return card.NewPipeline(faces, regions, reader, qrscan.Decoder{}, nil)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// processPair runs the pipeline over one id's front/back images.
func processPair(pipe *card.Pipeline, dir, out, id string) {
	frontPath, backPath, ok := pairPaths(dir, id)
	if !ok {
		return
	}
	front, err := imaging.Open(frontPath)
	if err != nil {
		logger.S().Errorw("open front image failed", "id", id, "err", err)
		return
	}
	back, err := imaging.Open(backPath)
	if err != nil {
		logger.S().Errorw("open back image failed", "id", id, "err", err)
		return
	}

	res := pipe.Process(front, back)
	if res.Outcome != card.OutcomeOK {
		logger.S().Warnw("pair rejected", "id", id, "outcome", res.Outcome.Code(),
			"front_cnic", res.FrontCNIC, "back_cnic", res.BackCNIC)
		return
	}

	dst := sink.CSVSink{Path: filepath.Join(out, id+".csv")}
	if err := dst.Replace(res.CardInfo); err != nil {
		logger.S().Errorw("record write failed (non-fatal)", "id", id, "err", err)
	}
	logger.S().Infow("pair processed", "id", id, "fields", len(res.CardInfo))
}

// pairID splits a file name like 42_front.jpg into its pair id and side.
func pairID(name string) (id, side string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, s := range []string{"front", "back"} {
		if strings.HasSuffix(base, "_"+s) {
			return strings.TrimSuffix(base, "_"+s), s, true
		}
	}
	return "", "", false
}

// pairPaths resolves both image paths for id, trying the supported extensions.
func pairPaths(dir, id string) (front, back string, ok bool) {
	find := func(side string) string {
		for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
			p := filepath.Join(dir, id+"_"+side+ext)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		return ""
	}
	front = find("front")
	back = find("back")
	return front, back, front != "" && back != ""
}

// completePairs lists ids that already have both sides present.
func completePairs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sides := map[string]map[string]bool{}
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		if id, side, ok := pairID(e.Name()); ok {
			if sides[id] == nil {
				sides[id] = map[string]bool{}
			}
			sides[id][side] = true
		}
	}
	var out []string
	for id, s := range sides {
		if s["front"] && s["back"] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, ids chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.S().Infow("watching (debounced)", "dir", dir)

	// simple debounce map of pending files
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				name := filepath.Base(ev.Name)
				if !isSupportedExt(name) {
					continue
				}
				pending[name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					delete(pending, name)
					id, _, ok := pairID(name)
					if !ok {
						continue
					}
					if _, _, complete := pairPaths(dir, id); complete {
						ids <- id
					}
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.S().Errorw("watch error", "err", err)
		}
	}
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}
