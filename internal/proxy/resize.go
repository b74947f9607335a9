package proxy

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// resizeImage scales a JPEG or PNG down to width pixels, keeping the aspect
// ratio. Images already narrower are returned unchanged. Other formats are
// not supported.
func resizeImage(data []byte, contentType string, width, maxDimension int) ([]byte, error) {
	if maxDimension > 0 && width > maxDimension {
		width = maxDimension
	}

	var img image.Image
	var err error
	switch contentType {
	case "image/jpeg", "image/jpg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("cannot resize %s", contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", contentType, err)
	}
	if img.Bounds().Dx() <= width {
		return data, nil
	}

	scaled := resize.Resize(uint(width), 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", contentType, err)
	}
	return buf.Bytes(), nil
}
