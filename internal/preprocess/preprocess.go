// Package preprocess converts uploaded leaf photographs into the fixed-shape
// float32 tensor the classifier expects.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

// Input tensor contract: [1, ImageSize, ImageSize, Channels], NHWC, float32.
const (
	ImageSize  = 256
	Channels   = 3
	TensorSize = 1 * ImageSize * ImageSize * Channels
)

var ErrDecode = errors.New("invalid image format")

// TensorFromReader decodes JPEG or PNG bytes and returns the normalized
// input tensor. Undecodable input fails with ErrDecode.
func TensorFromReader(r io.Reader) ([]float32, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return TensorFromImage(img), nil
}

// TensorFromImage stretch-resizes img to ImageSize×ImageSize and flattens it
// to NHWC order with intensities scaled into [0,1]. Grayscale and paletted
// images come out as three identical or expanded channels because RGBA()
// always reports full color. No aspect-ratio correction is applied.
func TensorFromImage(img image.Image) []float32 {
	resized := resize.Resize(ImageSize, ImageSize, img, resize.Lanczos3)

	data := make([]float32, TensorSize)
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			// RGBA returns 16-bit values.
			i := (y*ImageSize + x) * Channels
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
		}
	}

	return data
}
