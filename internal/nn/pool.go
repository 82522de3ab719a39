package nn

import (
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// GlobalAvgPool2D averages each channel over its full spatial extent:
// [N, C, H, W] -> [N, C, 1, 1]. Stateless.
type GlobalAvgPool2D[B tensor.Backend] struct{}

// NewGlobalAvgPool2D creates a global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend]() *GlobalAvgPool2D[B] {
	return &GlobalAvgPool2D[B]{}
}

func (g *GlobalAvgPool2D[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	return tensor.New[float32, B](backend.GlobalAvgPool2D(x.Raw()), backend)
}

func (g *GlobalAvgPool2D[B]) Parameters() []*Parameter[B] { return nil }

func (g *GlobalAvgPool2D[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{}
}

func (g *GlobalAvgPool2D[B]) LoadStateDict(map[string]*tensor.Tensor[float32, B]) error { return nil }
