// Copyright 2025 I2RNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// RawTensor is the low-level tensor representation: a reference-counted
// buffer plus shape, strides, and runtime type information.
//
// Backends operate on RawTensors; most users work with Tensor instead.
type RawTensor = tensor.RawTensor
