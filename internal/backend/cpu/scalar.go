package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// scalarToFloat64 converts any supported numeric scalar to float64 for
// dispatch. The per-dtype kernels narrow it back as needed.
func scalarToFloat64(op string, scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}

func (cpu *CPUBackend) scalarOp(op string, x *tensor.RawTensor, scalar any, f32 func(out, in []float32, s float32), f64 func(out, in []float64, s float64)) *tensor.RawTensor {
	s := scalarToFloat64(op, scalar)

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		f32(result.AsFloat32(), x.AsFloat32(), float32(s))
	case tensor.Float64:
		f64(result.AsFloat64(), x.AsFloat64(), s)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

// AddScalar computes x + scalar elementwise.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("add_scalar", x, scalar,
		func(out, in []float32, s float32) {
			for i, v := range in {
				out[i] = v + s
			}
		},
		func(out, in []float64, s float64) {
			for i, v := range in {
				out[i] = v + s
			}
		})
}

// SubScalar computes x - scalar elementwise.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("sub_scalar", x, scalar,
		func(out, in []float32, s float32) {
			for i, v := range in {
				out[i] = v - s
			}
		},
		func(out, in []float64, s float64) {
			for i, v := range in {
				out[i] = v - s
			}
		})
}

// MulScalar computes x * scalar elementwise.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mul_scalar", x, scalar,
		func(out, in []float32, s float32) {
			for i, v := range in {
				out[i] = v * s
			}
		},
		func(out, in []float64, s float64) {
			for i, v := range in {
				out[i] = v * s
			}
		})
}

// DivScalar computes x / scalar elementwise. Division by zero panics.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if scalarToFloat64("div_scalar", scalar) == 0 {
		panic("div_scalar: division by zero")
	}
	return cpu.scalarOp("div_scalar", x, scalar,
		func(out, in []float32, s float32) {
			for i, v := range in {
				out[i] = v / s
			}
		},
		func(out, in []float64, s float64) {
			for i, v := range in {
				out[i] = v / s
			}
		})
}
