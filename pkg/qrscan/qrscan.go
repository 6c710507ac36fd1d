// Package qrscan adapts the gozxing QR reader to the pipeline's
// BarcodeDecoder interface.
package qrscan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder decodes QR payloads from an image. The zero value is ready to use.
type Decoder struct{}

// Decode returns the decoded payload strings found in img. An image without
// a readable code yields an empty slice, not an error: absence of a code is
// an extraction gap, not a capability failure.
func (Decoder) Decode(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}
	reader := qrcode.NewQRCodeReader()
	res, err := reader.Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		return nil, nil
	}
	return []string{res.GetText()}, nil
}
