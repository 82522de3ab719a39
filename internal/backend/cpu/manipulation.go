package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Narrow returns the sub-tensor spanning [start, start+length) along dim.
// The result owns its own buffer.
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("narrow: dimension %d out of range for %dD tensor", dim, len(shape)))
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension of size %d",
			start, start+length, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("narrow: failed to create result tensor: %v", err))
	}

	elemSize := x.DType().Size()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := elemSize
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	// Each outer index contributes one contiguous byte run of length*inner.
	src := x.Data()
	dst := result.Data()
	srcRow := shape[dim] * inner
	dstRow := length * inner
	for o := 0; o < outer; o++ {
		copy(dst[o*dstRow:(o+1)*dstRow], src[o*srcRow+start*inner:o*srcRow+start*inner+dstRow])
	}

	return result
}

// Cat concatenates tensors along dim. All inputs must share dtype and agree
// on every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors to concatenate")
	}

	first := tensors[0]
	shape := first.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, len(shape)))
	}

	catSize := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != len(shape) {
			panic(fmt.Sprintf("cat: tensor %d has %dD shape, expected %dD", i, len(tShape), len(shape)))
		}
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), first.DType()))
		}
		for d := range shape {
			if d != dim && tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d has size %d in dimension %d, expected %d",
					i, tShape[d], d, shape[d]))
			}
		}
		catSize += tShape[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = catSize

	result, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: failed to create result tensor: %v", err))
	}

	elemSize := first.DType().Size()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := elemSize
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	dst := result.Data()
	dstRow := catSize * inner
	dstOffset := 0
	for _, t := range tensors {
		src := t.Data()
		srcRow := t.Shape()[dim] * inner
		for o := 0; o < outer; o++ {
			copy(dst[o*dstRow+dstOffset:o*dstRow+dstOffset+srcRow], src[o*srcRow:(o+1)*srcRow])
		}
		dstOffset += srcRow
	}

	return result
}

// Chunk splits x into n equal parts along dim. The dimension size must be
// divisible by n.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("chunk: dimension %d out of range for %dD tensor", dim, len(shape)))
	}
	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension of size %d not divisible into %d chunks", shape[dim], n))
	}

	chunkSize := shape[dim] / n
	chunks := make([]*tensor.RawTensor, n)
	for i := 0; i < n; i++ {
		chunks[i] = cpu.Narrow(x, dim, i*chunkSize, chunkSize)
	}
	return chunks
}

// Unsqueeze inserts a size-1 dimension at position dim.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, len(shape)))
	}

	newShape := make(tensor.Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return cpu.Reshape(x, newShape)
}

// Squeeze removes the dimension at position dim, which must have size 1.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, len(shape)))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	if len(newShape) == 0 {
		newShape = tensor.Shape{1}
	}

	return cpu.Reshape(x, newShape)
}
