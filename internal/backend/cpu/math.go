package cpu

import (
	"fmt"
	"math"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Sqrt computes the elementwise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sqrt: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			if v < 0 {
				panic(fmt.Sprintf("sqrt: negative value %v at index %d", v, i))
			}
			out[i] = float32(math.Sqrt(float64(v)))
		}
	case tensor.Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			if v < 0 {
				panic(fmt.Sprintf("sqrt: negative value %v at index %d", v, i))
			}
			out[i] = math.Sqrt(v)
		}
	default:
		panic(fmt.Sprintf("sqrt: unsupported dtype %s", x.DType()))
	}

	return result
}

// Rsqrt computes the elementwise reciprocal square root, 1/sqrt(x).
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("rsqrt: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			if v <= 0 {
				panic(fmt.Sprintf("rsqrt: non-positive value %v at index %d", v, i))
			}
			out[i] = float32(1.0 / math.Sqrt(float64(v)))
		}
	case tensor.Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			if v <= 0 {
				panic(fmt.Sprintf("rsqrt: non-positive value %v at index %d", v, i))
			}
			out[i] = 1.0 / math.Sqrt(v)
		}
	default:
		panic(fmt.Sprintf("rsqrt: unsupported dtype %s", x.DType()))
	}

	return result
}
