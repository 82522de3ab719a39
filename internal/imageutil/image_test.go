package imageutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/i2r-ml/i2rnet/internal/backend/cpu"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

func TestToTensorShapeAndRange(t *testing.T) {
	backend := cpu.New()

	img := image.NewRGBA(image.Rect(0, 0, 10, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 128, B: 0, A: 255})
		}
	}

	tsr, err := ToTensor(img, 8, backend)
	if err != nil {
		t.Fatalf("ToTensor failed: %v", err)
	}
	if !tsr.Shape().Equal(tensor.Shape{1, 3, 8, 8}) {
		t.Fatalf("unexpected shape %v", tsr.Shape())
	}

	for i, v := range tsr.Data() {
		if v < 0 || v > 1 {
			t.Fatalf("element %d out of range: %v", i, v)
		}
	}

	// Red channel should be near 1, blue near 0.
	plane := 8 * 8
	if r := tsr.Data()[0]; r < 0.9 {
		t.Errorf("red channel %v, want near 1", r)
	}
	if b := tsr.Data()[2*plane]; b > 0.1 {
		t.Errorf("blue channel %v, want near 0", b)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
