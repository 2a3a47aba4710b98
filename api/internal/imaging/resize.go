// Package imaging downscales reference uploads before they are sent to a
// provider. fal.ai rejects inputs over 4000px on a side.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"log"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decode webp uploads
)

const MaxDimension = 4000

const jpegQuality = 95

// ShrinkToFit caps the longest side at maxDim, preserving aspect ratio and
// re-encoding in the original format. Inputs already within limits, and
// anything that fails to decode, pass through unchanged.
func ShrinkToFit(data []byte, maxDim int) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("resize: undecodable image, sending original: %v", err)
		return data
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return data
	}

	var nw, nh int
	if w > h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	log.Printf("resize: %dx%d -> %dx%d", w, h, nw, nh)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		log.Printf("resize: re-encode failed, sending original: %v", err)
		return data
	}
	return buf.Bytes()
}
