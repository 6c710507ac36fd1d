package card

import (
	"image"

	"github.com/disintegration/imaging"
)

// The identity-field column sits to the left of the portrait on the front of
// the card, so both crop windows hang off the left edge of the face box.
// These offsets are empirical constants tuned to one fixed card layout at a
// fixed capture resolution; they are deliberately not resolution-independent.
const (
	roiLeftOffset  = 410 // window left edge: face x minus this
	roiRightInset  = 15  // window right edge: face x minus this
	upperTopOffset = 72  // upper window top: face y minus this
	upperBottomPad = 40  // upper window bottom: face bottom plus this
	lowerTopOffset = 110 // lower window top: face y plus this
	lowerBottomPad = 135 // lower window bottom: face bottom plus this
)

// UpperWindow computes the name/guardian-name crop window from a face box.
// Origins are clamped at zero; callers clamp to image bounds when cropping.
func UpperWindow(face image.Rectangle) image.Rectangle {
	x, y := face.Min.X, face.Min.Y
	h := face.Dy()
	return image.Rect(
		max(0, x-roiLeftOffset),
		max(0, y-upperTopOffset),
		max(0, x-roiRightInset),
		y+h+upperBottomPad,
	)
}

// LowerWindow computes the number/dates crop window from a face box.
func LowerWindow(face image.Rectangle) image.Rectangle {
	x, y := face.Min.X, face.Min.Y
	h := face.Dy()
	return image.Rect(
		max(0, x-roiLeftOffset),
		y+lowerTopOffset,
		max(0, x-roiRightInset),
		y+h+lowerBottomPad,
	)
}

// CropUpper derives the upper region of interest. When several faces were
// detected only the crop from the last one survives, while CropLower uses
// the first; both anchors are kept as-is rather than unified.
func CropUpper(img image.Image, faces []image.Rectangle) (image.Image, error) {
	if len(faces) == 0 {
		return nil, ErrNoFace
	}
	var roi image.Image
	for _, f := range faces {
		roi = imaging.Crop(img, UpperWindow(f))
	}
	if roi == nil || roi.Bounds().Empty() {
		return nil, ErrEmptyRegion
	}
	return roi, nil
}

// CropLower derives the lower region of interest. Unlike CropUpper it always
// uses the first detected face.
func CropLower(img image.Image, faces []image.Rectangle) (image.Image, error) {
	if len(faces) == 0 {
		return nil, ErrNoFace
	}
	roi := imaging.Crop(img, LowerWindow(faces[0]))
	if roi.Bounds().Empty() {
		return nil, ErrEmptyRegion
	}
	return roi, nil
}
