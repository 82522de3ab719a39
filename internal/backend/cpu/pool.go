package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/parallel"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// GlobalAvgPool2D averages each channel over its full spatial extent:
// [N, C, H, W] -> [N, C, 1, 1].
func (cpu *CPUBackend) GlobalAvgPool2D(input *tensor.RawTensor) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("global_avg_pool2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	spatial := h * w
	if spatial == 0 {
		panic("global_avg_pool2d: empty spatial dimensions")
	}

	result, err := tensor.NewRaw(tensor.Shape{n, c, 1, 1}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("global_avg_pool2d: failed to create result tensor: %v", err))
	}

	cfg := parallel.DefaultConfig()

	switch input.DType() {
	case tensor.Float32:
		in := input.AsFloat32()
		out := result.AsFloat32()
		inv := float32(1.0) / float32(spatial)
		parallel.ForBatch(n, c, func(b, ch int) {
			i := b*c + ch
			plane := in[i*spatial : (i+1)*spatial]
			sum := float32(0.0)
			for _, v := range plane {
				sum += v
			}
			out[i] = sum * inv
		}, cfg)
	case tensor.Float64:
		in := input.AsFloat64()
		out := result.AsFloat64()
		inv := 1.0 / float64(spatial)
		parallel.ForBatch(n, c, func(b, ch int) {
			i := b*c + ch
			plane := in[i*spatial : (i+1)*spatial]
			sum := 0.0
			for _, v := range plane {
				sum += v
			}
			out[i] = sum * inv
		}, cfg)
	default:
		panic(fmt.Sprintf("global_avg_pool2d: unsupported dtype %s", input.DType()))
	}

	return result
}
