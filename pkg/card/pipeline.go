package card

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"cnicdet/pkg/logger"
)

// The pipeline only needs narrow views of the heavy capabilities, so the
// interfaces live here, on the consumer side. The concrete adapters
// (cascade classifier, ONNX detector, Tesseract, QR reader) are expensive
// to initialize and are expected to be constructed once per process and
// shared across requests.

// FaceDetector finds face-like anchor boxes on a grayscale image.
type FaceDetector interface {
	Detect(gray image.Image) ([]image.Rectangle, error)
}

// RegionDetector finds card sub-regions and can return an annotated copy
// of the input with detection overlays.
type RegionDetector interface {
	Infer(img image.Image) ([]Detection, error)
	Annotate(img image.Image) (image.Image, error)
}

// TextReader recognizes text inside a card region, in reading order.
type TextReader interface {
	Read(region image.Image) ([]Token, error)
}

// BarcodeDecoder decodes machine-readable payloads from an image.
type BarcodeDecoder interface {
	Decode(img image.Image) ([]string, error)
}

// Sink durably replaces its contents with the given record. Sink failures
// never fail a pipeline run.
type Sink interface {
	Replace(record FieldSet) error
}

// Pipeline wires the capabilities into the extraction flow. Sink may be nil.
type Pipeline struct {
	Faces    FaceDetector
	Regions  RegionDetector
	Reader   TextReader
	Barcodes BarcodeDecoder
	Sink     Sink
}

func NewPipeline(faces FaceDetector, regions RegionDetector, reader TextReader, barcodes BarcodeDecoder, sink Sink) *Pipeline {
	return &Pipeline{Faces: faces, Regions: regions, Reader: reader, Barcodes: barcodes, Sink: sink}
}

// Process runs one synchronous extraction over a front/back image pair.
// Capability failures inside a stage are logged and degrade that stage to an
// empty extraction instead of aborting the run; the two exceptions are a
// missing face on the front (terminal, no region can be derived) and a CNIC
// mismatch (terminal, reported with both identifiers). Nothing is retried.
func (p *Pipeline) Process(front, back image.Image) Result {
	frontGray := imaging.Grayscale(front)

	faces, err := p.Faces.Detect(frontGray)
	if err != nil {
		logger.S().Errorw("face detection failed", "err", err)
		faces = nil
	}
	if len(faces) == 0 {
		return Result{Outcome: OutcomeNoFace}
	}

	backROI := p.annotatedCopy(back)

	upper, upperRaw := p.upperFields(front, faces)
	frontCNIC, lower, lowerRaw := p.lowerFields(frontGray, faces)
	backCNIC := p.backCNIC(backROI)

	res := Result{
		FrontCNIC: frontCNIC,
		BackCNIC:  backCNIC,
		UpperRaw:  upperRaw,
		LowerRaw:  lowerRaw,
	}

	if !Reconcile(frontCNIC, backCNIC) {
		res.Outcome = OutcomeMismatch
		return res
	}

	res.CardInfo = Merge(upper, lower)
	res.Outcome = OutcomeOK

	if p.Sink != nil {
		if err := p.Sink.Replace(res.CardInfo); err != nil {
			logger.S().Errorw("sink write failed (non-fatal)", "err", err)
		}
	}
	return res
}

// annotatedCopy returns the image with detection overlays, or the original
// image when annotation fails. The annotated back side is both a diagnostic
// artifact and the input handed to the QR decoder.
func (p *Pipeline) annotatedCopy(img image.Image) image.Image {
	out, err := p.Regions.Annotate(img)
	if err != nil {
		logger.S().Errorw("region annotation failed", "err", err)
		return img
	}
	return out
}

// upperFields extracts Name / Guardian Name from the region left of the face.
// The region detector must see at least one card sub-region on the front
// before any text is read; without detections the stage yields nothing.
func (p *Pipeline) upperFields(front image.Image, faces []image.Rectangle) (FieldSet, []string) {
	dets, err := p.Regions.Infer(front)
	if err != nil {
		logger.S().Errorw("front region detection failed", "err", err)
		return nil, nil
	}
	if len(dets) == 0 {
		return nil, nil
	}

	roi, err := CropUpper(front, faces)
	if err != nil {
		if !errors.Is(err, ErrEmptyRegion) && !errors.Is(err, ErrNoFace) {
			logger.S().Errorw("upper crop failed", "err", err)
		}
		return nil, nil
	}

	tokens, err := p.Reader.Read(imaging.Grayscale(roi))
	if err != nil {
		logger.S().Errorw("upper region OCR failed", "err", err)
		return nil, nil
	}
	return ExtractUpper(tokens)
}

// lowerFields extracts the card number and the three dates, plus the printed
// CNIC, from the region below-left of the face on the grayscale front.
func (p *Pipeline) lowerFields(frontGray image.Image, faces []image.Rectangle) (string, FieldSet, []string) {
	roi, err := CropLower(frontGray, faces)
	if err != nil {
		if !errors.Is(err, ErrEmptyRegion) && !errors.Is(err, ErrNoFace) {
			logger.S().Errorw("lower crop failed", "err", err)
		}
		return "", nil, nil
	}

	tokens, err := p.Reader.Read(roi)
	if err != nil {
		logger.S().Errorw("lower region OCR failed", "err", err)
		return "", nil, nil
	}
	return ExtractLower(tokens)
}

// backCNIC decodes the QR payload on the (annotated) back side and extracts
// the encoded identifier. A detector pass runs over the back region first,
// mirroring the front-side flow; its boxes are unused here.
func (p *Pipeline) backCNIC(backROI image.Image) string {
	if _, err := p.Regions.Infer(backROI); err != nil {
		logger.S().Errorw("back region detection failed", "err", err)
	}

	payloads, err := p.Barcodes.Decode(imaging.Grayscale(backROI))
	if err != nil {
		logger.S().Errorw("QR decode failed", "err", err)
		return ""
	}
	if len(payloads) == 0 {
		return ""
	}
	return BackCNIC(payloads[0])
}
