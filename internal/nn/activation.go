package nn

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// reluKernels is implemented by backends with native activation kernels.
type reluKernels interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	ReLU6(x *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) elementwise. Stateless.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

func (r *ReLU[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	k, ok := any(backend).(reluKernels)
	if !ok {
		panic(fmt.Sprintf("relu: backend %s has no activation kernels", backend.Name()))
	}
	return tensor.New[float32, B](k.ReLU(x.Raw()), backend)
}

func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

func (r *ReLU[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{}
}

func (r *ReLU[B]) LoadStateDict(map[string]*tensor.Tensor[float32, B]) error { return nil }

// ReLU6 applies min(max(0, x), 6) elementwise. Stateless.
type ReLU6[B tensor.Backend] struct{}

// NewReLU6 creates a ReLU6 activation layer.
func NewReLU6[B tensor.Backend]() *ReLU6[B] {
	return &ReLU6[B]{}
}

func (r *ReLU6[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	k, ok := any(backend).(reluKernels)
	if !ok {
		panic(fmt.Sprintf("relu6: backend %s has no activation kernels", backend.Name()))
	}
	return tensor.New[float32, B](k.ReLU6(x.Raw()), backend)
}

func (r *ReLU6[B]) Parameters() []*Parameter[B] { return nil }

func (r *ReLU6[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{}
}

func (r *ReLU6[B]) LoadStateDict(map[string]*tensor.Tensor[float32, B]) error { return nil }
