package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2r-ml/i2rnet/internal/backend/cpu"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

func TestMakeDivisible(t *testing.T) {
	tests := []struct {
		v       float64
		divisor int
		want    int
	}{
		{32, 8, 32},
		{36, 8, 40},   // rounds to nearest multiple
		{33, 8, 32},   // 32 is within 10% of 33
		{3, 8, 8},     // clamped to divisor
		{96, 8, 96},
		{12.8, 8, 16},
		{9.6, 4, 12}, // width 0.1 path: 8 < 0.9*9.6, bumped up
		{1280, 4, 1280},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeDivisible(tt.v, tt.divisor), "MakeDivisible(%v, %d)", tt.v, tt.divisor)
	}

	// Explicit minValue below the divisor allows a smaller result.
	assert.Equal(t, 4, MakeDivisible(3, 8, 4))
	assert.Equal(t, 1280, MakeDivisible(1280, 4, 4))
}

func TestStemDivisor(t *testing.T) {
	assert.Equal(t, 4, stemDivisor(0.1))
	assert.Equal(t, 8, stemDivisor(0.5))
	assert.Equal(t, 8, stemDivisor(1.0))
}

func TestBlockVariantSelection(t *testing.T) {
	backend := cpu.New()

	// expand_ratio 2: full stack, no residual.
	b := NewI2RBlock(32, 96, 2, 2, false, backend)
	assert.False(t, b.HasIdentity())

	// channel change at stride 1: bottleneck only, no residual.
	b = NewI2RBlock(96, 128, 1, 4, false, backend)
	assert.False(t, b.HasIdentity())
	assert.Equal(t, 5, b.Layers().Len())

	// forced transition with equal channels: bottleneck only.
	b = NewI2RBlock(384, 384, 1, 4, true, backend)
	assert.False(t, b.HasIdentity())
	assert.Equal(t, 5, b.Layers().Len())

	// channel change at stride 2: bottleneck plus strided depthwise.
	b = NewI2RBlock(128, 256, 2, 4, false, backend)
	assert.False(t, b.HasIdentity())
	assert.Equal(t, 7, b.Layers().Len())

	// equal channels at stride 1: residual block.
	b = NewI2RBlock(96, 96, 1, 4, false, backend)
	assert.True(t, b.HasIdentity())
}

func TestBlockResidualAdd(t *testing.T) {
	backend := cpu.New()

	// With all conv weights zero and default batch norm stats, the conv
	// stack maps everything to zero, so the block reduces to its residual
	// and must return the input unchanged.
	block := NewI2RBlock(8, 8, 1, 4, false, backend)
	require.True(t, block.HasIdentity())

	input, err := tensor.FromSlice(
		rampFloat32(1*8*4*4), tensor.Shape{1, 8, 4, 4}, backend)
	require.NoError(t, err)

	out := block.Forward(input)
	require.Equal(t, input.Shape(), out.Shape())
	assert.InDeltaSlice(t, input.Data(), out.Data(), 1e-4)
}

func TestBlockForwardShapes(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name        string
		inp, oup    int
		stride      int
		expandRatio int
		transition  bool
		inH, inW    int
		outH, outW  int
	}{
		{"expand2 stride2", 16, 96, 2, 2, false, 16, 16, 8, 8},
		{"bottleneck stride1", 96, 128, 1, 4, false, 8, 8, 8, 8},
		{"transition", 96, 96, 1, 4, true, 8, 8, 8, 8},
		{"bottleneck stride2", 128, 256, 2, 4, false, 8, 8, 4, 4},
		{"residual", 96, 96, 1, 4, false, 8, 8, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := NewI2RBlock(tt.inp, tt.oup, tt.stride, tt.expandRatio, tt.transition, backend)
			input := tensor.Zeros[float32](tensor.Shape{1, tt.inp, tt.inH, tt.inW}, backend)
			out := block.Forward(input)
			assert.Equal(t, tensor.Shape{1, tt.oup, tt.outH, tt.outW}, out.Shape())
		})
	}
}

func TestNetworkBlockCounts(t *testing.T) {
	backend := cpu.New()

	base := NewI2RNet[*cpu.CPUBackend](Config{}, backend)
	assert.Equal(t, 18, base.NumBlocks())

	v2 := NewI2RNetV2[*cpu.CPUBackend](Config{}, backend)
	assert.Equal(t, 15, v2.NumBlocks())
}

func TestNetworkBlockCountsMatchStageTables(t *testing.T) {
	total := 0
	for _, stage := range i2rNetStages {
		total += stage.NumBlocks
	}
	assert.Equal(t, 18, total)

	total = 0
	for _, stage := range i2rNetV2Stages {
		total += stage.NumBlocks
	}
	assert.Equal(t, 15, total)
}

func TestNetworkHeadChannels(t *testing.T) {
	backend := cpu.New()

	m := NewI2RNet[*cpu.CPUBackend](Config{}, backend)
	assert.Equal(t, 1280, m.HeadChannels())
}

func TestTinyWidthKeepsNonzeroChannels(t *testing.T) {
	backend := cpu.New()

	// Width 0.1 rounds with divisor 4 so no layer collapses to zero.
	m := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	assert.Greater(t, m.HeadChannels(), 0)

	input := tensor.Zeros[float32](tensor.Shape{1, 3, 64, 64}, backend)
	out := m.Forward(input)
	assert.Equal(t, tensor.Shape{1, 1000}, out.Shape())
}

func TestForwardOutputShape(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-width forward pass in short mode")
	}
	backend := cpu.New()

	m := NewI2RNetV2[*cpu.CPUBackend](Config{NumClasses: 1000}, backend)
	m.Init(1)

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 224, 224}, backend)
	out := m.Forward(input)
	assert.Equal(t, tensor.Shape{2, 1000}, out.Shape())
}

func TestInitDeterministic(t *testing.T) {
	backend := cpu.New()

	a := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	b := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	a.Init(42)
	b.Init(42)

	sdA := a.StateDict()
	sdB := b.StateDict()
	require.Equal(t, len(sdA), len(sdB))
	for key, ta := range sdA {
		tb, ok := sdB[key]
		require.True(t, ok, "missing key %q", key)
		assert.Equal(t, ta.Data(), tb.Data(), "key %q", key)
	}
}

func TestInitSeedChangesWeights(t *testing.T) {
	backend := cpu.New()

	a := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	b := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	a.Init(1)
	b.Init(2)

	// The stem weights must differ under different seeds.
	key := "features.0.0.weight"
	wa, ok := a.StateDict()[key]
	require.True(t, ok)
	wb := b.StateDict()[key]
	assert.NotEqual(t, wa.Data(), wb.Data())
}

func TestStateDictRoundTrip(t *testing.T) {
	backend := cpu.New()

	src := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	src.Init(7)

	dst := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	input, err := tensor.FromSlice(rampFloat32(1*3*32*32), tensor.Shape{1, 3, 32, 32}, backend)
	require.NoError(t, err)

	outSrc := src.Forward(input)
	outDst := dst.Forward(input)
	assert.Equal(t, outSrc.Data(), outDst.Data())
}

func TestStateDictShapeMismatch(t *testing.T) {
	backend := cpu.New()

	src := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.1}, backend)
	dst := NewI2RNetV2[*cpu.CPUBackend](Config{WidthMult: 0.5}, backend)
	assert.Error(t, dst.LoadStateDict(src.StateDict()))
}

// rampFloat32 returns 0.001, 0.002, ... so forward results are small,
// well-conditioned values.
func rampFloat32(n int) []float32 {
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i+1) * 0.001
	}
	return data
}
