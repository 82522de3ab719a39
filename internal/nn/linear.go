package nn

import (
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Linear is a fully connected layer: y = x @ W^T + b.
//
// Weight shape: [out_features, in_features].
// Bias shape:   [out_features].
type Linear[B tensor.Backend] struct {
	weight *tensor.Tensor[float32, B]
	bias   *tensor.Tensor[float32, B]
}

// NewLinear creates a fully connected layer with zero-valued weights.
// Call an initializer or LoadStateDict before use.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return &Linear[B]{
		weight: tensor.Zeros[float32](tensor.Shape{outFeatures, inFeatures}, backend),
		bias:   tensor.Zeros[float32](tensor.Shape{outFeatures}, backend),
	}
}

// Forward computes the affine transform: [N, in] -> [N, out].
func (l *Linear[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := x.MatMul(l.weight.T())
	return out.Add(l.bias.Reshape(1, l.bias.Shape()[0]))
}

// Weight returns the weight tensor.
func (l *Linear[B]) Weight() *tensor.Tensor[float32, B] {
	return l.weight
}

// Bias returns the bias tensor.
func (l *Linear[B]) Bias() *tensor.Tensor[float32, B] {
	return l.bias
}

// Parameters returns weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{
		NewParameter("weight", l.weight),
		NewParameter("bias", l.bias),
	}
}

// StateDict returns the layer's tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{
		"weight": l.weight,
		"bias":   l.bias,
	}
}

// LoadStateDict restores the layer's tensors.
func (l *Linear[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	if err := LoadTensor(sd, "weight", l.weight); err != nil {
		return err
	}
	return LoadTensor(sd, "bias", l.bias)
}
