package cpu

import (
	"fmt"

	"github.com/i2r-ml/i2rnet/internal/parallel"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Conv2D performs grouped 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels/groups, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// groups partitions channels: filter block g sees only input channels
// [g*C_in/groups, (g+1)*C_in/groups). groups == 1 is a dense convolution;
// groups == in_channels == out_channels is a depthwise convolution where
// each output channel depends on exactly one input channel.
//
// Per group, the input patches are flattened to columns (im2col) and the
// convolution reduces to a matrix multiplication of the group's filters
// against the column matrix.
//
// Reference: "High Performance Convolutional Neural Networks for Document
// Processing" (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding, groups int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in/groups,K_h,K_w], got %dD", len(kernelShape)))
	}
	if groups <= 0 {
		panic(fmt.Sprintf("conv2d: invalid groups %d", groups))
	}

	N := inputShape[0]
	CIn := inputShape[1]
	H := inputShape[2]
	W := inputShape[3]
	COut := kernelShape[0]
	CInK := kernelShape[1]
	KH := kernelShape[2]
	KW := kernelShape[3]

	if CIn%groups != 0 {
		panic(fmt.Sprintf("conv2d: input channels %d not divisible by groups %d", CIn, groups))
	}
	if COut%groups != 0 {
		panic(fmt.Sprintf("conv2d: output channels %d not divisible by groups %d", COut, groups))
	}
	if CIn/groups != CInK {
		panic(fmt.Sprintf("conv2d: kernel channels %d != input channels per group %d", CInK, CIn/groups))
	}

	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1

	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", HOut, WOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{N, COut, HOut, WOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	args := convArgs{
		n: N, cIn: CIn, h: H, w: W,
		cOut: COut, kh: KH, kw: KW,
		hOut: HOut, wOut: WOut,
		stride: stride, padding: padding, groups: groups,
	}

	switch input.DType() {
	case tensor.Float32:
		conv2dFloat32(output, input, kernel, args)
	case tensor.Float64:
		conv2dFloat64(output, input, kernel, args)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// convArgs bundles the resolved convolution geometry.
type convArgs struct {
	n, cIn, h, w     int
	cOut, kh, kw     int
	hOut, wOut       int
	stride, padding  int
	groups           int
}

// conv2dFloat32 performs grouped Conv2D for float32 using im2col.
//
// For each group g:
//  1. Im2col the group's channel slice:
//     [N, C_in/g, H, W] -> [N * H_out * W_out, C_in/g * K_h * K_w]
//  2. MatMul the group's filter rows against the columns.
//  3. Scatter the products directly into [N, C_out, H_out, W_out].
func conv2dFloat32(output, input, kernel *tensor.RawTensor, a convArgs) {
	inputData := input.AsFloat32()
	kernelData := kernel.AsFloat32()
	outputData := output.AsFloat32()

	cInG := a.cIn / a.groups
	cOutG := a.cOut / a.groups

	colWidth := cInG * a.kh * a.kw
	colHeight := a.n * a.hOut * a.wOut
	colBuf := make([]float32, colHeight*colWidth)

	spatial := a.hOut * a.wOut

	cfg := parallel.DefaultConfig()

	for g := 0; g < a.groups; g++ {
		im2colFloat32(colBuf, inputData, a, g*cInG, cInG)

		ocBase := g * cOutG
		// Each output position j is written by exactly one iteration, so
		// the loop parallelizes without synchronization.
		parallel.For(colHeight, func(j int) {
			col := colBuf[j*colWidth : (j+1)*colWidth]
			// j encodes (n, h*W_out+w) for this output position
			n := j / spatial
			outBase := n*a.cOut*spatial + j%spatial
			for i := 0; i < cOutG; i++ {
				kernelRow := kernelData[(ocBase+i)*colWidth : (ocBase+i+1)*colWidth]
				sum := float32(0.0)
				for k, kv := range kernelRow {
					sum += kv * col[k]
				}
				outputData[outBase+(ocBase+i)*spatial] = sum
			}
		}, cfg)
	}
}

// im2colFloat32 transforms one channel group of the input into a column
// matrix. Each row of colBuf corresponds to one output position; each
// column to one kernel weight. Out-of-bounds positions read as zero
// (padding).
func im2colFloat32(colBuf, inputData []float32, a convArgs, cBase, cCount int) {
	colWidth := cCount * a.kh * a.kw
	colIdx := 0

	for n := 0; n < a.n; n++ {
		for outH := 0; outH < a.hOut; outH++ {
			for outW := 0; outW < a.wOut; outW++ {
				hStart := outH*a.stride - a.padding
				wStart := outW*a.stride - a.padding
				bufIdx := colIdx * colWidth

				for c := cBase; c < cBase+cCount; c++ {
					for kh := 0; kh < a.kh; kh++ {
						for kw := 0; kw < a.kw; kw++ {
							h := hStart + kh
							w := wStart + kw

							if h >= 0 && h < a.h && w >= 0 && w < a.w {
								colBuf[bufIdx] = inputData[n*a.cIn*a.h*a.w+c*a.h*a.w+h*a.w+w]
							} else {
								colBuf[bufIdx] = 0.0
							}
							bufIdx++
						}
					}
				}

				colIdx++
			}
		}
	}
}

// conv2dFloat64 performs grouped Conv2D for float64 using im2col.
func conv2dFloat64(output, input, kernel *tensor.RawTensor, a convArgs) {
	inputData := input.AsFloat64()
	kernelData := kernel.AsFloat64()
	outputData := output.AsFloat64()

	cInG := a.cIn / a.groups
	cOutG := a.cOut / a.groups

	colWidth := cInG * a.kh * a.kw
	colHeight := a.n * a.hOut * a.wOut
	colBuf := make([]float64, colHeight*colWidth)

	spatial := a.hOut * a.wOut

	cfg := parallel.DefaultConfig()

	for g := 0; g < a.groups; g++ {
		im2colFloat64(colBuf, inputData, a, g*cInG, cInG)

		ocBase := g * cOutG
		parallel.For(colHeight, func(j int) {
			col := colBuf[j*colWidth : (j+1)*colWidth]
			n := j / spatial
			outBase := n*a.cOut*spatial + j%spatial
			for i := 0; i < cOutG; i++ {
				kernelRow := kernelData[(ocBase+i)*colWidth : (ocBase+i+1)*colWidth]
				sum := 0.0
				for k, kv := range kernelRow {
					sum += kv * col[k]
				}
				outputData[outBase+(ocBase+i)*spatial] = sum
			}
		}, cfg)
	}
}

func im2colFloat64(colBuf, inputData []float64, a convArgs, cBase, cCount int) {
	colWidth := cCount * a.kh * a.kw
	colIdx := 0

	for n := 0; n < a.n; n++ {
		for outH := 0; outH < a.hOut; outH++ {
			for outW := 0; outW < a.wOut; outW++ {
				hStart := outH*a.stride - a.padding
				wStart := outW*a.stride - a.padding
				bufIdx := colIdx * colWidth

				for c := cBase; c < cBase+cCount; c++ {
					for kh := 0; kh < a.kh; kh++ {
						for kw := 0; kw < a.kw; kw++ {
							h := hStart + kh
							w := wStart + kw

							if h >= 0 && h < a.h && w >= 0 && w < a.w {
								colBuf[bufIdx] = inputData[n*a.cIn*a.h*a.w+c*a.h*a.w+h*a.w+w]
							} else {
								colBuf[bufIdx] = 0.0
							}
							bufIdx++
						}
					}
				}

				colIdx++
			}
		}
	}
}
