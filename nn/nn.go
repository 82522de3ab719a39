// Copyright 2025 I2RNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network layers.
//
// Layers are generic over the compute backend and run forward-only
// inference. All layers implement the Module interface.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D[*cpu.Backend](nn.Conv2DConfig{
//	    InChannels:  3,
//	    OutChannels: 32,
//	    KernelSize:  3,
//	    Stride:      2,
//	    Padding:     1,
//	}, backend)
//	out := conv.Forward(input)
package nn

import (
	"golang.org/x/exp/rand"

	"github.com/i2r-ml/i2rnet/internal/nn"
	"github.com/i2r-ml/i2rnet/tensor"
)

// Module is the interface implemented by all network layers.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named tensor owned by a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Sequential chains modules, feeding each one's output to the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential[B](modules...)
}

// Conv2DConfig configures a 2D convolution layer.
type Conv2DConfig = nn.Conv2DConfig

// Conv2D is a 2D convolution layer with optional channel groups.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a convolution layer with zero-valued weights.
func NewConv2D[B tensor.Backend](cfg Conv2DConfig, backend B) *Conv2D[B] {
	return nn.NewConv2D[B](cfg, backend)
}

// BatchNorm2D normalizes each channel using stored running statistics.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a batch normalization layer.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D[B](numFeatures, backend)
}

// ReLU applies max(0, x) elementwise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// ReLU6 applies min(max(0, x), 6) elementwise.
type ReLU6[B tensor.Backend] = nn.ReLU6[B]

// NewReLU6 creates a ReLU6 activation layer.
func NewReLU6[B tensor.Backend]() *ReLU6[B] {
	return nn.NewReLU6[B]()
}

// GlobalAvgPool2D averages each channel over its full spatial extent.
type GlobalAvgPool2D[B tensor.Backend] = nn.GlobalAvgPool2D[B]

// NewGlobalAvgPool2D creates a global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend]() *GlobalAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D[B]()
}

// Dropout randomly zeroes elements during training; identity in
// evaluation mode.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with drop probability p.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	return nn.NewDropout[B](p)
}

// Linear is a fully connected layer: y = x @ W^T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a fully connected layer with zero-valued weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear[B](inFeatures, outFeatures, backend)
}

// Weight initializers

// FillNormal fills t with draws from N(mean, std).
func FillNormal[B tensor.Backend](t *tensor.Tensor[float32, B], mean, std float64, src rand.Source) {
	nn.FillNormal(t, mean, std, src)
}

// FillHeNormal fills t with draws from N(0, sqrt(2/fan)).
func FillHeNormal[B tensor.Backend](t *tensor.Tensor[float32, B], fan int, src rand.Source) {
	nn.FillHeNormal(t, fan, src)
}

// FillZeros fills t with zeros.
func FillZeros[B tensor.Backend](t *tensor.Tensor[float32, B]) {
	nn.FillZeros(t)
}

// FillOnes fills t with ones.
func FillOnes[B tensor.Backend](t *tensor.Tensor[float32, B]) {
	nn.FillOnes(t)
}
