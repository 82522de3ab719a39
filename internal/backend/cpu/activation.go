package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// ReLU computes max(0, x) elementwise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			if v > 0 {
				out[i] = v
			}
		}
	case tensor.Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			if v > 0 {
				out[i] = v
			}
		}
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	return result
}

// ReLU6 computes min(max(0, x), 6) elementwise. The upper clamp keeps
// activations in a fixed range, which matters for low-precision inference.
func (cpu *CPUBackend) ReLU6(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu6: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			switch {
			case v <= 0:
				out[i] = 0
			case v >= 6:
				out[i] = 6
			default:
				out[i] = v
			}
		}
	case tensor.Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			switch {
			case v <= 0:
				out[i] = 0
			case v >= 6:
				out[i] = 6
			default:
				out[i] = v
			}
		}
	default:
		panic(fmt.Sprintf("relu6: unsupported dtype %s", x.DType()))
	}

	return result
}
