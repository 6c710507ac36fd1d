package vision

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
)

// Detector defaults; overridable through NewRegionDetector.
const (
	DefaultConfThreshold = 0.2
	DefaultIouThreshold  = 0.3

	inputSize = 640 // YOLOv8 square input
)

// RegionDetector runs a YOLOv8 ONNX model over a card image and returns the
// detected sub-regions. The network is loaded once on first use.
type RegionDetector struct {
	modelPath string
	names     []string
	conf      float32
	iou       float32

	once    sync.Once
	mu      sync.Mutex
	net     gocv.Net
	loaded  bool
	loadErr error
}

// NewRegionDetector builds a detector for modelPath. Zero thresholds select
// the defaults (confidence 0.2, IoU 0.3).
func NewRegionDetector(modelPath string, names []string, conf, iou float32) *RegionDetector {
	if conf == 0 {
		conf = DefaultConfThreshold
	}
	if iou == 0 {
		iou = DefaultIouThreshold
	}
	return &RegionDetector{modelPath: modelPath, names: names, conf: conf, iou: iou}
}

func (d *RegionDetector) load() {
	d.mu.Lock()
	defer d.mu.Unlock()
	logger.S().Infow("loading region model", "path", d.modelPath, "conf", d.conf, "iou", d.iou)
	d.net = gocv.ReadNetFromONNX(d.modelPath)
	d.loaded = true
	if d.net.Empty() {
		d.loadErr = fmt.Errorf("load onnx model %q failed", d.modelPath)
	}
}

// Infer returns the card sub-regions found in img, in model-pixel order
// after non-maximum suppression.
func (d *RegionDetector) Infer(img image.Image) ([]card.Detection, error) {
	d.once.Do(d.load)
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	return d.decode(out, mat.Cols(), mat.Rows())
}

// decode turns the raw [1, 4+numClasses, anchors] output tensor into
// detections in source-image coordinates.
func (d *RegionDetector) decode(out gocv.Mat, srcW, srcH int) ([]card.Detection, error) {
	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows := dims[1] // 4 box values + one score per class
	cols := dims[2] // anchors
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("output data: %w", err)
	}

	xFactor := float32(srcW) / float32(inputSize)
	yFactor := float32(srcH) / float32(inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classes []int
	for j := 0; j < cols; j++ {
		best := float32(0)
		bestClass := 0
		for c := 4; c < rows; c++ {
			if s := data[c*cols+j]; s > best {
				best = s
				bestClass = c - 4
			}
		}
		if best < d.conf {
			continue
		}
		cx := data[0*cols+j] * xFactor
		cy := data[1*cols+j] * yFactor
		w := data[2*cols+j] * xFactor
		h := data[3*cols+j] * yFactor
		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, best)
		classes = append(classes, bestClass)
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, d.conf, d.iou)
	dets := make([]card.Detection, 0, len(keep))
	for _, i := range keep {
		dets = append(dets, card.Detection{Box: boxes[i], Score: scores[i], ClassID: classes[i]})
	}
	return dets, nil
}

// Annotate returns a copy of img with detection boxes and class labels drawn
// on it. Used for diagnostics and as the back-side region handed to the QR
// decoder.
func (d *RegionDetector) Annotate(img image.Image) (image.Image, error) {
	dets, err := d.Infer(img)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	green := color.RGBA{G: 255}
	for _, det := range dets {
		gocv.Rectangle(&mat, det.Box, green, 2)
		label := fmt.Sprintf("%s %.2f", d.className(det.ClassID), det.Score)
		org := image.Pt(det.Box.Min.X, max(det.Box.Min.Y-6, 12))
		gocv.PutText(&mat, label, org, gocv.FontHersheySimplex, 0.5, green, 1)
	}
	return mat.ToImage()
}

func (d *RegionDetector) className(id int) string {
	if id >= 0 && id < len(d.names) {
		return d.names[id]
	}
	return fmt.Sprintf("class%d", id)
}

// Close releases the network. A detector that never loaded stays unloaded.
func (d *RegionDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		_ = d.net.Close()
		d.loaded = false
	}
}
