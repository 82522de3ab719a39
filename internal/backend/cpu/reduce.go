package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	case tensor.Int32:
		var sum int32
		for _, v := range x.AsInt32() {
			sum += v
		}
		result.AsInt32()[0] = sum
	case tensor.Int64:
		var sum int64
		for _, v := range x.AsInt64() {
			sum += v
		}
		result.AsInt64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// reduceGeometry factors a shape around a reduction dimension into
// outer * dimSize * inner contiguous runs.
func reduceGeometry(op string, shape tensor.Shape, dim int) (outer, dimSize, inner int) {
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", op, dim, len(shape)))
	}
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, s := range shape {
		if i != dim {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

// SumDim sums over one dimension.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	outer, dimSize, inner := reduceGeometry("sum_dim", x.Shape(), dim)

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum_dim: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimFloat32(result.AsFloat32(), x.AsFloat32(), outer, dimSize, inner)
	case tensor.Float64:
		sumDimFloat64(result.AsFloat64(), x.AsFloat64(), outer, dimSize, inner)
	default:
		panic(fmt.Sprintf("sum_dim: unsupported dtype %s", x.DType()))
	}

	return result
}

// MeanDim averages over one dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	dimSize := x.Shape()[dim]
	summed := cpu.SumDim(x, dim, keepDim)

	switch summed.DType() {
	case tensor.Float32:
		inv := float32(1.0) / float32(dimSize)
		data := summed.AsFloat32()
		for i := range data {
			data[i] *= inv
		}
	case tensor.Float64:
		inv := 1.0 / float64(dimSize)
		data := summed.AsFloat64()
		for i := range data {
			data[i] *= inv
		}
	}

	return summed
}

func sumDimFloat32(out, in []float32, outer, dimSize, inner int) {
	for o := 0; o < outer; o++ {
		outBase := o * inner
		inBase := o * dimSize * inner
		for d := 0; d < dimSize; d++ {
			row := in[inBase+d*inner : inBase+(d+1)*inner]
			for i, v := range row {
				out[outBase+i] += v
			}
		}
	}
}

func sumDimFloat64(out, in []float64, outer, dimSize, inner int) {
	for o := 0; o < outer; o++ {
		outBase := o * inner
		inBase := o * dimSize * inner
		for d := 0; d < dimSize; d++ {
			row := in[inBase+d*inner : inBase+(d+1)*inner]
			for i, v := range row {
				out[outBase+i] += v
			}
		}
	}
}

// Argmax returns the index of the maximum element along dim as an Int32
// tensor with that dimension removed. Ties resolve to the lowest index.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	outer, dimSize, inner := reduceGeometry("argmax", x.Shape(), dim)

	result, err := tensor.NewRaw(reducedShape(x.Shape(), dim, false), tensor.Int32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("argmax: failed to create result tensor: %v", err))
	}
	out := result.AsInt32()

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		for o := 0; o < outer; o++ {
			inBase := o * dimSize * inner
			for i := 0; i < inner; i++ {
				best := in[inBase+i]
				bestIdx := int32(0)
				for d := 1; d < dimSize; d++ {
					if v := in[inBase+d*inner+i]; v > best {
						best = v
						bestIdx = int32(d)
					}
				}
				out[o*inner+i] = bestIdx
			}
		}
	case tensor.Float64:
		in := x.AsFloat64()
		for o := 0; o < outer; o++ {
			inBase := o * dimSize * inner
			for i := 0; i < inner; i++ {
				best := in[inBase+i]
				bestIdx := int32(0)
				for d := 1; d < dimSize; d++ {
					if v := in[inBase+d*inner+i]; v > best {
						best = v
						bestIdx = int32(d)
					}
				}
				out[o*inner+i] = bestIdx
			}
		}
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	return result
}
