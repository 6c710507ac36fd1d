// Package textread adapts Tesseract (via gosseract) to the pipeline's
// TextReader interface.
package textread

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
)

// Reader recognizes text line by line. The Tesseract client is created once
// and reused; it is not safe for concurrent use, so reads are serialized.
type Reader struct {
	languages []string

	once    sync.Once
	mu      sync.Mutex
	client  *gosseract.Client
	initErr error
}

// NewReader builds a reader for the given languages (default "eng").
func NewReader(languages ...string) *Reader {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Reader{languages: languages}
}

func (r *Reader) init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	logger.S().Infow("initialising tesseract client", "languages", r.languages)
	r.client = gosseract.NewClient()
	if err := r.client.SetLanguage(r.languages...); err != nil {
		r.initErr = fmt.Errorf("set languages %v: %w", r.languages, err)
	}
}

// Read recognizes text inside region and returns one token per text line,
// in the order Tesseract reports them.
func (r *Reader) Read(region image.Image) ([]card.Token, error) {
	r.once.Do(r.init)
	if r.initErr != nil {
		return nil, r.initErr
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, region, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	tokens := make([]card.Token, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		tokens = append(tokens, card.Token{Box: b.Box, Text: text, Confidence: b.Confidence})
	}
	return tokens, nil
}

// Close releases the Tesseract client. A reader that never initialised the
// client has nothing to release.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}
