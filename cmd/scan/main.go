// Command scan runs the extraction pipeline once over a front/back image
// pair and prints the result as JSON. Useful for trying a card without
// standing up the HTTP server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
	"cnicdet/pkg/qrscan"
	"cnicdet/pkg/sink"
	"cnicdet/pkg/textread"
	"cnicdet/pkg/vision"
)

func main() {
	frontPath := flag.String("front", "", "front image path")
	backPath := flag.String("back", "", "back image path")
	sinkPath := flag.String("sink", "", "optional CSV path for the merged record")
	flag.Parse()

	_ = logger.InitDevelopment()
	defer logger.Sync()

	if *frontPath == "" || *backPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scan -front front.jpg -back back.jpg [-sink out.csv]")
		os.Exit(2)
	}

	front, err := imaging.Open(*frontPath)
	if err != nil {
		logger.S().Fatalw("open front image failed", "path", *frontPath, "err", err)
	}
	back, err := imaging.Open(*backPath)
	if err != nil {
		logger.S().Fatalw("open back image failed", "path", *backPath, "err", err)
	}

	faces := vision.NewFaceDetector(envOr("CASCADE_PATH", "haarcascade_frontalface_default.xml"))
	defer faces.Close()
	regions := vision.NewRegionDetector(envOr("ONNX_MODEL_PATH", "Model/best.onnx"), nil, 0, 0)
	defer regions.Close()
	reader := textread.NewReader(strings.Split(envOr("OCR_LANGUAGES", "eng"), ",")...)
	defer reader.Close()

	var dst card.Sink
	if *sinkPath != "" {
		dst = sink.CSVSink{Path: *sinkPath}
	}
	pipe := card.NewPipeline(faces, regions, reader, qrscan.Decoder{}, dst)

	res := pipe.Process(front, back)
	out := map[string]any{
		"success":    res.Outcome == card.OutcomeOK,
		"outcome":    res.Outcome.Code(),
		"card_info":  res.CardInfo,
		"front_cnic": res.FrontCNIC,
		"back_cnic":  res.BackCNIC,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)

	if res.Outcome != card.OutcomeOK {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
