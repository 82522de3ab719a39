package model

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/nn"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// conv3x3BN builds a 3x3 convolution with batch norm and ReLU6.
func conv3x3BN[B tensor.Backend](inp, oup, stride int, backend B) *nn.Sequential[B] {
	return nn.NewSequential[B](
		nn.NewConv2D[B](nn.Conv2DConfig{
			InChannels:  inp,
			OutChannels: oup,
			KernelSize:  3,
			Stride:      stride,
			Padding:     1,
		}, backend),
		nn.NewBatchNorm2D[B](oup, backend),
		nn.NewReLU6[B](),
	)
}

// I2RBlock is the inverted-inverted residual block. Unlike the MobileNetV2
// bottleneck, it compresses channels in the middle (hidden = channels /
// expand_ratio) and keeps the wide representation at the block boundary.
//
// The block takes one of four shapes depending on its position in the
// network:
//
//  1. expand_ratio == 2: depthwise, compress, expand, depthwise(stride).
//  2. channel change at stride 1, or a forced transition: compress and
//     expand only.
//  3. channel change at stride 2: compress, expand, strided depthwise.
//  4. otherwise: the full shape of (1) at stride 1, plus a residual
//     connection on the first inp/div channels.
//
// Compression convolutions are linear (no activation after their batch
// norm), as are the trailing depthwise convolutions in shapes 1, 3 and 4.
type I2RBlock[B tensor.Backend] struct {
	conv     *nn.Sequential[B]
	identity bool

	// residual channel count, inp/div with div fixed at 1
	idChannels int
}

// NewI2RBlock creates a block mapping inp channels to oup channels.
// Stride must be 1 or 2.
func NewI2RBlock[B tensor.Backend](inp, oup, stride, expandRatio int, transition bool, backend B) *I2RBlock[B] {
	if stride != 1 && stride != 2 {
		panic(fmt.Sprintf("i2rblock: stride must be 1 or 2, got %d", stride))
	}

	const div = 1
	hiddenDim := inp / expandRatio

	block := &I2RBlock[B]{idChannels: inp / div}

	switch {
	case expandRatio == 2:
		block.conv = nn.NewSequential[B](
			// dw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: inp, KernelSize: 3, Stride: 1, Padding: 1, Groups: inp,
			}, backend),
			nn.NewBatchNorm2D[B](inp, backend),
			nn.NewReLU6[B](),
			// pw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: hiddenDim, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](hiddenDim, backend),
			// pw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: hiddenDim, OutChannels: oup, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
			nn.NewReLU6[B](),
			// dw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: oup, OutChannels: oup, KernelSize: 3, Stride: stride, Padding: 1, Groups: oup,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
		)

	case (inp != oup && stride == 1) || transition:
		hiddenDim = oup / expandRatio
		block.conv = nn.NewSequential[B](
			// pw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: hiddenDim, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](hiddenDim, backend),
			// pw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: hiddenDim, OutChannels: oup, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
			nn.NewReLU6[B](),
		)

	case inp != oup && stride == 2:
		hiddenDim = oup / expandRatio
		block.conv = nn.NewSequential[B](
			// pw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: hiddenDim, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](hiddenDim, backend),
			// pw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: hiddenDim, OutChannels: oup, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
			nn.NewReLU6[B](),
			// dw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: oup, OutChannels: oup, KernelSize: 3, Stride: stride, Padding: 1, Groups: oup,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
		)

	default:
		// inp == oup: residual block. Both depthwise convolutions run at
		// stride 1 regardless of the requested stride.
		block.identity = true
		block.conv = nn.NewSequential[B](
			// dw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: inp, KernelSize: 3, Stride: 1, Padding: 1, Groups: inp,
			}, backend),
			nn.NewBatchNorm2D[B](inp, backend),
			nn.NewReLU6[B](),
			// pw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: inp, OutChannels: hiddenDim, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](hiddenDim, backend),
			// pw
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: hiddenDim, OutChannels: oup, KernelSize: 1,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
			nn.NewReLU6[B](),
			// dw-linear
			nn.NewConv2D[B](nn.Conv2DConfig{
				InChannels: oup, OutChannels: oup, KernelSize: 3, Stride: 1, Padding: 1, Groups: oup,
			}, backend),
			nn.NewBatchNorm2D[B](oup, backend),
		)
	}

	return block
}

// Forward runs the block. Residual blocks add the first idChannels input
// channels onto the corresponding output channels and return a new
// tensor; the remaining channels pass through untouched.
func (b *I2RBlock[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := b.conv.Forward(x)
	if !b.identity {
		return out
	}

	outC := out.Shape()[1]
	if b.idChannels >= outC {
		return out.Add(x.Narrow(1, 0, outC))
	}

	head := out.Narrow(1, 0, b.idChannels).Add(x.Narrow(1, 0, b.idChannels))
	tail := out.Narrow(1, b.idChannels, outC-b.idChannels)
	return tensor.Cat([]*tensor.Tensor[float32, B]{head, tail}, 1)
}

// HasIdentity reports whether the block carries a residual connection.
func (b *I2RBlock[B]) HasIdentity() bool {
	return b.identity
}

// Layers returns the block's convolution stack, in order.
func (b *I2RBlock[B]) Layers() *nn.Sequential[B] {
	return b.conv
}

func (b *I2RBlock[B]) Parameters() []*nn.Parameter[B] {
	return b.conv.Parameters()
}

func (b *I2RBlock[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	sd := make(map[string]*tensor.Tensor[float32, B])
	nn.PrefixStateDict(sd, "conv", b.conv)
	return sd
}

func (b *I2RBlock[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	return b.conv.LoadStateDict(nn.ExtractStateDict(sd, "conv"))
}
