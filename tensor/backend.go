// Copyright 2025 I2RNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Backend defines the interface that compute backends must implement.
//
// Backends handle the actual computation for tensor operations. The CPU
// backend in backend/cpu is the reference implementation.
type Backend = tensor.Backend
