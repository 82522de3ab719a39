// Copyright 2025 I2RNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides the public API for the I2RNet classifier family.
//
// I2RNet inverts the MobileNetV2 bottleneck: blocks compress channels in
// the middle instead of expanding them, keeping the wide representation
// and the residual connection at block boundaries.
//
// Example:
//
//	backend := cpu.New()
//	net := model.NewI2RNetV2[*cpu.Backend](model.Config{}, backend)
//	net.Init(42)
//	logits := net.Forward(images) // [N, 3, 224, 224] -> [N, 1000]
package model

import (
	"github.com/i2r-ml/i2rnet/internal/model"
	"github.com/i2r-ml/i2rnet/tensor"
)

// Config holds the model hyperparameters.
type Config = model.Config

// BlockConfig describes one stage of the network.
type BlockConfig = model.BlockConfig

// I2RBlock is the inverted-inverted residual block.
type I2RBlock[B tensor.Backend] = model.I2RBlock[B]

// I2RNet is the full classifier network.
type I2RNet[B tensor.Backend] = model.I2RNet[B]

// NewI2RNet builds the base network (18 blocks at width 1.0).
func NewI2RNet[B tensor.Backend](cfg Config, backend B) *I2RNet[B] {
	return model.NewI2RNet[B](cfg, backend)
}

// NewI2RNetV2 builds the V2 variant (15 blocks at width 1.0).
func NewI2RNetV2[B tensor.Backend](cfg Config, backend B) *I2RNet[B] {
	return model.NewI2RNetV2[B](cfg, backend)
}

// NewI2RBlock creates a single block mapping inp channels to oup channels.
func NewI2RBlock[B tensor.Backend](inp, oup, stride, expandRatio int, transition bool, backend B) *I2RBlock[B] {
	return model.NewI2RBlock[B](inp, oup, stride, expandRatio, transition, backend)
}

// MakeDivisible rounds v to the nearest multiple of divisor, never going
// below minValue (divisor when omitted) and never more than 10% below v.
func MakeDivisible(v float64, divisor int, minValue ...int) int {
	return model.MakeDivisible(v, divisor, minValue...)
}
