package cpu

import (
	"math"
	"testing"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

func rawFromFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloat32Equal(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	backend := New()

	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	result := backend.Add(a, b)
	assertFloat32Equal(t, result.AsFloat32(), []float32{11, 22, 33, 44}, 0)
}

func TestAddBroadcast(t *testing.T) {
	backend := New()

	// [2, 3] + [1, 3] broadcasts the second operand across rows.
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := rawFromFloat32(t, tensor.Shape{1, 3}, []float32{10, 20, 30})

	result := backend.Add(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{11, 22, 33, 14, 25, 36}, 0)
}

func TestMulBroadcastChannelwise(t *testing.T) {
	backend := New()

	// [1, 2, 2, 2] * [1, 2, 1, 1] scales each channel plane.
	a := rawFromFloat32(t, tensor.Shape{1, 2, 2, 2}, []float32{1, 1, 1, 1, 2, 2, 2, 2})
	scale := rawFromFloat32(t, tensor.Shape{1, 2, 1, 1}, []float32{3, 5})

	result := backend.Mul(a, scale)
	assertFloat32Equal(t, result.AsFloat32(), []float32{3, 3, 3, 3, 10, 10, 10, 10}, 0)
}

func TestMatMul(t *testing.T) {
	backend := New()

	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := rawFromFloat32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{58, 64, 139, 154}, 1e-5)
}

func TestMatMulShapeMismatch(t *testing.T) {
	backend := New()

	a := rawFromFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
	b := rawFromFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}

func TestConv2DIdentityKernel(t *testing.T) {
	backend := New()

	// 1x1 identity kernel reproduces the input.
	input := rawFromFloat32(t, tensor.Shape{1, 1, 3, 3}, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9})
	kernel := rawFromFloat32(t, tensor.Shape{1, 1, 1, 1}, []float32{1})

	result := backend.Conv2D(input, kernel, 1, 0, 1)
	if !result.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), input.AsFloat32(), 1e-5)
}

func TestConv2DSumKernel(t *testing.T) {
	backend := New()

	// 3x3 all-ones kernel with padding 1 computes local sums.
	input := rawFromFloat32(t, tensor.Shape{1, 1, 3, 3}, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1})
	kernel := rawFromFloat32(t, tensor.Shape{1, 1, 3, 3}, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1})

	result := backend.Conv2D(input, kernel, 1, 1, 1)
	// Corner sees 4 neighbors, edge 6, center 9.
	assertFloat32Equal(t, result.AsFloat32(), []float32{4, 6, 4, 6, 9, 6, 4, 6, 4}, 1e-5)
}

func TestConv2DStride(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{1, 1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	kernel := rawFromFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 1, 1, 1})

	result := backend.Conv2D(input, kernel, 2, 0, 1)
	if !result.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{14, 22, 46, 54}, 1e-5)
}

func TestConv2DDepthwise(t *testing.T) {
	backend := New()

	// groups == channels: each channel convolved independently.
	input := rawFromFloat32(t, tensor.Shape{1, 2, 2, 2}, []float32{
		1, 2, 3, 4, // channel 0
		10, 20, 30, 40, // channel 1
	})
	kernel := rawFromFloat32(t, tensor.Shape{2, 1, 1, 1}, []float32{2, 3})

	result := backend.Conv2D(input, kernel, 1, 0, 2)
	if !result.Shape().Equal(tensor.Shape{1, 2, 2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{2, 4, 6, 8, 30, 60, 90, 120}, 1e-5)
}

func TestConv2DGrouped(t *testing.T) {
	backend := New()

	// 4 input channels, 2 groups: filters see only their half.
	input := rawFromFloat32(t, tensor.Shape{1, 4, 1, 1}, []float32{1, 2, 3, 4})
	kernel := rawFromFloat32(t, tensor.Shape{2, 2, 1, 1}, []float32{
		1, 1, // output 0 sums channels 0,1
		1, 1, // output 1 sums channels 2,3
	})

	result := backend.Conv2D(input, kernel, 1, 0, 2)
	assertFloat32Equal(t, result.AsFloat32(), []float32{3, 7}, 1e-5)
}

func TestConv2DChannelMismatch(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{1, 3, 2, 2}, make([]float32, 12))
	kernel := rawFromFloat32(t, tensor.Shape{2, 2, 1, 1}, make([]float32, 4))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on channel mismatch")
		}
	}()
	backend.Conv2D(input, kernel, 1, 0, 1)
}

func TestGlobalAvgPool2D(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{1, 2, 2, 2}, []float32{
		1, 2, 3, 4, // channel 0 mean 2.5
		10, 20, 30, 40, // channel 1 mean 25
	})

	result := backend.GlobalAvgPool2D(input)
	if !result.Shape().Equal(tensor.Shape{1, 2, 1, 1}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{2.5, 25}, 1e-5)
}

func TestReLU6(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{5}, []float32{-2, 0, 3, 6, 9})
	result := backend.ReLU6(input)
	assertFloat32Equal(t, result.AsFloat32(), []float32{0, 0, 3, 6, 6}, 0)
}

func TestRsqrt(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{3}, []float32{1, 4, 16})
	result := backend.Rsqrt(input)
	assertFloat32Equal(t, result.AsFloat32(), []float32{1, 0.5, 0.25}, 1e-6)
}

func TestScalarOps(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	assertFloat32Equal(t, backend.AddScalar(x, float32(1)).AsFloat32(), []float32{2, 3, 4}, 0)
	assertFloat32Equal(t, backend.SubScalar(x, 1).AsFloat32(), []float32{0, 1, 2}, 0)
	assertFloat32Equal(t, backend.MulScalar(x, 2.0).AsFloat32(), []float32{2, 4, 6}, 0)
	assertFloat32Equal(t, backend.DivScalar(x, 2).AsFloat32(), []float32{0.5, 1, 1.5}, 0)
}

func TestNarrow(t *testing.T) {
	backend := New()

	// Narrow the channel dimension of [1, 3, 2, 2].
	input := rawFromFloat32(t, tensor.Shape{1, 3, 2, 2}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})

	result := backend.Narrow(input, 1, 0, 2)
	if !result.Shape().Equal(tensor.Shape{1, 2, 2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{1, 2, 3, 4, 5, 6, 7, 8}, 0)

	tail := backend.Narrow(input, 1, 2, 1)
	assertFloat32Equal(t, tail.AsFloat32(), []float32{9, 10, 11, 12}, 0)
}

func TestCatRoundTrip(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})

	chunks := backend.Chunk(input, 2, 1)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	assertFloat32Equal(t, chunks[0].AsFloat32(), []float32{1, 2, 5, 6}, 0)
	assertFloat32Equal(t, chunks[1].AsFloat32(), []float32{3, 4, 7, 8}, 0)

	restored := backend.Cat(chunks, 1)
	if !restored.Shape().Equal(input.Shape()) {
		t.Fatalf("unexpected shape %v", restored.Shape())
	}
	assertFloat32Equal(t, restored.AsFloat32(), input.AsFloat32(), 0)
}

func TestSumDim(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	rows := backend.SumDim(input, 1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("unexpected shape %v", rows.Shape())
	}
	assertFloat32Equal(t, rows.AsFloat32(), []float32{6, 15}, 1e-5)

	cols := backend.SumDim(input, 0, true)
	if !cols.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("unexpected shape %v", cols.Shape())
	}
	assertFloat32Equal(t, cols.AsFloat32(), []float32{5, 7, 9}, 1e-5)
}

func TestMeanDim(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 3, 5, 7})
	result := backend.MeanDim(input, 1, false)
	assertFloat32Equal(t, result.AsFloat32(), []float32{2, 6}, 1e-5)
}

func TestArgmax(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 4}, []float32{
		0.1, 0.7, 0.1, 0.1,
		0.2, 0.1, 0.1, 0.6,
	})

	result := backend.Argmax(input, 1)
	if !result.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	indices := result.AsInt32()
	if indices[0] != 1 || indices[1] != 3 {
		t.Errorf("unexpected argmax %v", indices)
	}
}

func TestTranspose2D(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	result := backend.Transpose(input)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloat32Equal(t, result.AsFloat32(), []float32{1, 4, 2, 5, 3, 6}, 0)
}

func TestUnsqueezeSqueeze(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	up := backend.Unsqueeze(input, 0)
	if !up.Shape().Equal(tensor.Shape{1, 2, 3}) {
		t.Fatalf("unexpected shape %v", up.Shape())
	}

	down := backend.Squeeze(up, 0)
	if !down.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("unexpected shape %v", down.Shape())
	}
}
