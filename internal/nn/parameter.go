package nn

import "github.com/i2r-ml/i2rnet/internal/tensor"

// Parameter is a named tensor owned by a layer. The name is local to the
// layer ("weight", "bias"); composite modules add prefixes when building
// state dicts.
type Parameter[B tensor.Backend] struct {
	Name   string
	Tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps a tensor as a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{Name: name, Tensor: t}
}
