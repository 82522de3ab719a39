package nn

import (
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// BatchNorm2D normalizes each channel of a [N, C, H, W] tensor using
// stored running statistics:
//
//	y = gamma * (x - running_mean) / sqrt(running_var + eps) + beta
//
// This is inference-mode normalization only. Running statistics are loaded
// from a state dict (or left at their mean=0, var=1 defaults); they are
// never updated by Forward.
type BatchNorm2D[B tensor.Backend] struct {
	gamma *tensor.Tensor[float32, B]
	beta  *tensor.Tensor[float32, B]

	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]

	eps float32
}

// NewBatchNorm2D creates a batch normalization layer for numFeatures
// channels. Gamma starts at 1, beta at 0, running stats at mean 0 var 1.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	return &BatchNorm2D[B]{
		gamma:       tensor.Ones[float32](tensor.Shape{numFeatures}, backend),
		beta:        tensor.Zeros[float32](tensor.Shape{numFeatures}, backend),
		runningMean: tensor.Zeros[float32](tensor.Shape{numFeatures}, backend),
		runningVar:  tensor.Ones[float32](tensor.Shape{numFeatures}, backend),
		eps:         1e-5,
	}
}

// Forward normalizes the input channel-wise.
func (bn *BatchNorm2D[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	c := bn.gamma.Shape()[0]

	// Reshape per-channel vectors to [1, C, 1, 1] so they broadcast over
	// batch and spatial dimensions.
	mean := bn.runningMean.Reshape(1, c, 1, 1)
	invStd := bn.runningVar.AddScalar(bn.eps).Rsqrt().Reshape(1, c, 1, 1)
	gamma := bn.gamma.Reshape(1, c, 1, 1)
	beta := bn.beta.Reshape(1, c, 1, 1)

	return x.Sub(mean).Mul(invStd).Mul(gamma).Add(beta)
}

// Gamma returns the scale parameter.
func (bn *BatchNorm2D[B]) Gamma() *tensor.Tensor[float32, B] {
	return bn.gamma
}

// Beta returns the shift parameter.
func (bn *BatchNorm2D[B]) Beta() *tensor.Tensor[float32, B] {
	return bn.beta
}

// NumFeatures returns the number of normalized channels.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.gamma.Shape()[0]
}

// Parameters returns gamma and beta. Running statistics are buffers, not
// parameters; they appear only in the state dict.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{
		NewParameter("weight", bn.gamma),
		NewParameter("bias", bn.beta),
	}
}

// StateDict returns gamma, beta, and the running statistics.
func (bn *BatchNorm2D[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	return map[string]*tensor.Tensor[float32, B]{
		"weight":       bn.gamma,
		"bias":         bn.beta,
		"running_mean": bn.runningMean,
		"running_var":  bn.runningVar,
	}
}

// LoadStateDict restores gamma, beta, and the running statistics.
func (bn *BatchNorm2D[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	for key, dst := range map[string]*tensor.Tensor[float32, B]{
		"weight":       bn.gamma,
		"bias":         bn.beta,
		"running_mean": bn.runningMean,
		"running_var":  bn.runningVar,
	} {
		if err := LoadTensor(sd, key, dst); err != nil {
			return err
		}
	}
	return nil
}
