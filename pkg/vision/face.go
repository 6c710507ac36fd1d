// Package vision provides the detection capabilities (Haar cascade faces,
// ONNX card-region detector) on top of gocv. Both adapters load their model
// lazily, exactly once, because the underlying resources are heavy and
// shared process-wide.
package vision

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"cnicdet/pkg/logger"
)

// Cascade parameters for the frontal-face detector. Minimum size and
// neighbor count are capability configuration, not pipeline concerns.
const (
	faceScaleFactor  = 1.1
	faceMinNeighbors = 5
	faceMinSize      = 40
)

// FaceDetector finds frontal faces with an OpenCV Haar cascade.
type FaceDetector struct {
	cascadePath string

	once    sync.Once
	mu      sync.Mutex
	cls     gocv.CascadeClassifier
	loaded  bool
	loadErr error
}

func NewFaceDetector(cascadePath string) *FaceDetector {
	return &FaceDetector{cascadePath: cascadePath}
}

func (d *FaceDetector) load() {
	d.mu.Lock()
	defer d.mu.Unlock()
	logger.S().Infow("loading face cascade", "path", d.cascadePath)
	d.cls = gocv.NewCascadeClassifier()
	d.loaded = true
	if !d.cls.Load(d.cascadePath) {
		d.loadErr = fmt.Errorf("load cascade %q failed", d.cascadePath)
	}
}

// Detect returns the face bounding boxes found on a grayscale image.
func (d *FaceDetector) Detect(gray image.Image) ([]image.Rectangle, error) {
	d.once.Do(d.load)
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	mat, err := toGrayMat(gray)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// The classifier keeps internal state between calls.
	d.mu.Lock()
	defer d.mu.Unlock()
	rects := d.cls.DetectMultiScaleWithParams(
		mat, faceScaleFactor, faceMinNeighbors, 0,
		image.Pt(faceMinSize, faceMinSize), image.Pt(0, 0),
	)
	return rects, nil
}

// Close releases the cascade. A detector that never loaded stays unloaded.
func (d *FaceDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		_ = d.cls.Close()
		d.loaded = false
	}
}

// toGrayMat converts any image.Image into a single-channel Mat.
func toGrayMat(img image.Image) (gocv.Mat, error) {
	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("image to mat: %w", err)
	}
	defer rgb.Close()
	gray := gocv.NewMat()
	gocv.CvtColor(rgb, &gray, gocv.ColorRGBToGray)
	return gray, nil
}
