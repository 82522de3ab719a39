// Package imageutil converts images into network input tensors.
package imageutil

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"golang.org/x/image/draw"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// InputSize is the spatial resolution the classifier expects.
const InputSize = 224

// Load decodes a JPEG or PNG image from disk.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// ToTensor resizes the image to size x size with Catmull-Rom resampling
// and converts it to a [1, 3, size, size] float32 tensor with channel
// values in [0, 1].
func ToTensor[B tensor.Backend](img image.Image, size int, backend B) (*tensor.Tensor[float32, B], error) {
	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	t := tensor.Zeros[float32](tensor.Shape{1, 3, size, size}, backend)
	data := t.Data()

	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			idx := y*size + x
			data[idx] = float32(r) / 65535.0
			data[plane+idx] = float32(g) / 65535.0
			data[2*plane+idx] = float32(b) / 65535.0
		}
	}
	return t, nil
}

// LoadTensor loads an image file and converts it to a network input
// tensor at the standard resolution.
func LoadTensor[B tensor.Backend](path string, backend B) (*tensor.Tensor[float32, B], error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ToTensor(img, InputSize, backend)
}
