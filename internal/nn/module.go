// Package nn provides neural network layers for inference.
//
// Layers are generic over the compute backend. All layers implement the
// Module interface; composite layers (Sequential, model code) hold their
// children as Modules and delegate.
package nn

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Module is the interface implemented by all network layers.
//
// StateDict and LoadStateDict use flat dotted keys ("0.weight",
// "features.3.running_mean") so composite modules can prefix their
// children's entries.
type Module[B tensor.Backend] interface {
	// Forward computes the layer output for the given input.
	Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the layer's learnable parameters.
	Parameters() []*Parameter[B]

	// StateDict returns all tensors needed to reconstruct the layer's
	// state, including non-learnable buffers such as running statistics.
	StateDict() map[string]*tensor.Tensor[float32, B]

	// LoadStateDict restores the layer's state from a state dict.
	// Missing keys and shape mismatches are errors.
	LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error
}

// PrefixStateDict copies a child module's state dict entries into dst
// under the given key prefix.
func PrefixStateDict[B tensor.Backend](dst map[string]*tensor.Tensor[float32, B], prefix string, m Module[B]) {
	for k, v := range m.StateDict() {
		dst[prefix+"."+k] = v
	}
}

// ExtractStateDict collects the entries under prefix into a child-relative
// state dict.
func ExtractStateDict[B tensor.Backend](sd map[string]*tensor.Tensor[float32, B], prefix string) map[string]*tensor.Tensor[float32, B] {
	child := make(map[string]*tensor.Tensor[float32, B])
	p := prefix + "."
	for k, v := range sd {
		if len(k) > len(p) && k[:len(p)] == p {
			child[k[len(p):]] = v
		}
	}
	return child
}

// LoadTensor copies the state dict entry for key into dst after checking
// presence and shape.
func LoadTensor[B tensor.Backend](sd map[string]*tensor.Tensor[float32, B], key string, dst *tensor.Tensor[float32, B]) error {
	src, ok := sd[key]
	if !ok {
		return fmt.Errorf("missing key %q in state dict", key)
	}
	if !src.Shape().Equal(dst.Shape()) {
		return fmt.Errorf("shape mismatch for %q: got %v, want %v", key, src.Shape(), dst.Shape())
	}
	copy(dst.Data(), src.Data())
	return nil
}
