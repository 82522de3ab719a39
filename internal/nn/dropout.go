package nn

import (
	"fmt"
	"math/rand"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Dropout randomly zeroes elements with probability p during training,
// scaling the survivors by 1/(1-p) so the expected activation is
// unchanged (inverted dropout). In evaluation mode it is the identity.
//
// Layers start in evaluation mode.
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("dropout: probability %v out of range [0, 1)", p))
	}
	return &Dropout[B]{p: p}
}

// SetTraining switches between training and evaluation behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return x
	}

	backend := x.Backend()
	mask := tensor.Zeros[float32](x.Shape(), backend)
	maskData := mask.Data()
	scale := 1 / (1 - d.p)
	for i := range maskData {
		if rand.Float32() >= d.p { //nolint:gosec // G404: math/rand is intentional for ML reproducibility
			maskData[i] = scale
		}
	}
	return x.Mul(mask)
}

func (d *Dropout[B]) Parameters() []*Parameter[B] { return nil }

func (d *Dropout[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{}
}

func (d *Dropout[B]) LoadStateDict(map[string]*tensor.Tensor[float32, B]) error { return nil }
