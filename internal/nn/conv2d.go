package nn

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Conv2DConfig configures a 2D convolution layer.
type Conv2DConfig struct {
	InChannels  int
	OutChannels int
	KernelSize  int
	Stride      int // default 1
	Padding     int // default 0
	Groups      int // default 1; InChannels for depthwise
	Bias        bool
}

// Conv2D is a 2D convolution layer.
//
// Weight shape: [out_channels, in_channels/groups, kernel, kernel].
// Bias shape:   [out_channels] (optional).
type Conv2D[B tensor.Backend] struct {
	weight *tensor.Tensor[float32, B]
	bias   *tensor.Tensor[float32, B] // nil when disabled

	stride  int
	padding int
	groups  int
}

// NewConv2D creates a convolution layer with zero-valued weights. Call an
// initializer or LoadStateDict before use.
func NewConv2D[B tensor.Backend](cfg Conv2DConfig, backend B) *Conv2D[B] {
	if cfg.Stride == 0 {
		cfg.Stride = 1
	}
	if cfg.Groups == 0 {
		cfg.Groups = 1
	}
	if cfg.InChannels%cfg.Groups != 0 {
		panic(fmt.Sprintf("conv2d: in_channels %d not divisible by groups %d", cfg.InChannels, cfg.Groups))
	}
	if cfg.OutChannels%cfg.Groups != 0 {
		panic(fmt.Sprintf("conv2d: out_channels %d not divisible by groups %d", cfg.OutChannels, cfg.Groups))
	}

	layer := &Conv2D[B]{
		weight: tensor.Zeros[float32](
			tensor.Shape{cfg.OutChannels, cfg.InChannels / cfg.Groups, cfg.KernelSize, cfg.KernelSize},
			backend),
		stride:  cfg.Stride,
		padding: cfg.Padding,
		groups:  cfg.Groups,
	}
	if cfg.Bias {
		layer.bias = tensor.Zeros[float32](tensor.Shape{cfg.OutChannels}, backend)
	}
	return layer
}

// Forward computes the convolution: [N, C_in, H, W] -> [N, C_out, H', W'].
func (c *Conv2D[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := x.Backend()
	raw := backend.Conv2D(x.Raw(), c.weight.Raw(), c.stride, c.padding, c.groups)
	out := tensor.New[float32, B](raw, backend)

	if c.bias != nil {
		outC := c.bias.Shape()[0]
		out = out.Add(c.bias.Reshape(1, outC, 1, 1))
	}
	return out
}

// Weight returns the weight tensor.
func (c *Conv2D[B]) Weight() *tensor.Tensor[float32, B] {
	return c.weight
}

// Bias returns the bias tensor, or nil if the layer has no bias.
func (c *Conv2D[B]) Bias() *tensor.Tensor[float32, B] {
	return c.bias
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.weight.Shape()[0]
}

// Parameters returns weight and, if present, bias.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	params := []*Parameter[B]{NewParameter("weight", c.weight)}
	if c.bias != nil {
		params = append(params, NewParameter("bias", c.bias))
	}
	return params
}

// StateDict returns the layer's tensors.
func (c *Conv2D[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	sd := map[string]*tensor.Tensor[float32, B]{"weight": c.weight}
	if c.bias != nil {
		sd["bias"] = c.bias
	}
	return sd
}

// LoadStateDict restores the layer's tensors.
func (c *Conv2D[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	if err := LoadTensor(sd, "weight", c.weight); err != nil {
		return err
	}
	if c.bias != nil {
		return LoadTensor(sd, "bias", c.bias)
	}
	return nil
}
