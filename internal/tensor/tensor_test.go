package tensor

import (
	"testing"
)

// fakeBackend implements just enough of Backend for tensor-level tests.
// Real kernels live in the cpu backend package; here we only need shape
// plumbing and device metadata.
type fakeBackend struct{}

func (fakeBackend) Add(a, b *RawTensor) *RawTensor  { panic("not implemented") }
func (fakeBackend) Sub(a, b *RawTensor) *RawTensor  { panic("not implemented") }
func (fakeBackend) Mul(a, b *RawTensor) *RawTensor  { panic("not implemented") }
func (fakeBackend) Div(a, b *RawTensor) *RawTensor  { panic("not implemented") }
func (fakeBackend) MatMul(a, b *RawTensor) *RawTensor {
	panic("not implemented")
}
func (fakeBackend) Conv2D(input, kernel *RawTensor, stride, padding, groups int) *RawTensor {
	panic("not implemented")
}
func (fakeBackend) GlobalAvgPool2D(input *RawTensor) *RawTensor { panic("not implemented") }
func (fakeBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	raw, err := NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(err)
	}
	copy(raw.Data(), t.Data())
	return raw
}
func (fakeBackend) Transpose(t *RawTensor, axes ...int) *RawTensor     { panic("not implemented") }
func (fakeBackend) MulScalar(x *RawTensor, scalar any) *RawTensor      { panic("not implemented") }
func (fakeBackend) AddScalar(x *RawTensor, scalar any) *RawTensor      { panic("not implemented") }
func (fakeBackend) SubScalar(x *RawTensor, scalar any) *RawTensor      { panic("not implemented") }
func (fakeBackend) DivScalar(x *RawTensor, scalar any) *RawTensor      { panic("not implemented") }
func (fakeBackend) Sqrt(x *RawTensor) *RawTensor                       { panic("not implemented") }
func (fakeBackend) Rsqrt(x *RawTensor) *RawTensor                      { panic("not implemented") }
func (fakeBackend) Sum(x *RawTensor) *RawTensor                        { panic("not implemented") }
func (fakeBackend) SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	panic("not implemented")
}
func (fakeBackend) MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	panic("not implemented")
}
func (fakeBackend) Argmax(x *RawTensor, dim int) *RawTensor            { panic("not implemented") }
func (fakeBackend) Cat(tensors []*RawTensor, dim int) *RawTensor       { panic("not implemented") }
func (fakeBackend) Chunk(x *RawTensor, n, dim int) []*RawTensor        { panic("not implemented") }
func (fakeBackend) Narrow(x *RawTensor, dim, start, length int) *RawTensor {
	panic("not implemented")
}
func (fakeBackend) Unsqueeze(x *RawTensor, dim int) *RawTensor { panic("not implemented") }
func (fakeBackend) Squeeze(x *RawTensor, dim int) *RawTensor   { panic("not implemented") }
func (fakeBackend) Name() string                               { return "fake" }
func (fakeBackend) Device() Device                             { return CPU }

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{3}, 3},
		{Shape{2, 3}, 6},
		{Shape{1, 3, 224, 224}, 150528},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeComputeStrides(t *testing.T) {
	shape := Shape{2, 3, 4}
	strides := shape.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Fatalf("ComputeStrides(%v) = %v, want %v", shape, strides, want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want Shape
		needs      bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true},
		{Shape{4, 1, 5}, Shape{3, 1}, Shape{4, 3, 5}, true},
		{Shape{1, 8, 4, 4}, Shape{1, 8, 1, 1}, Shape{1, 8, 4, 4}, true},
	}
	for _, tt := range tests {
		got, needs, err := BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Fatalf("BroadcastShapes(%v, %v) error: %v", tt.a, tt.b, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if needs != tt.needs {
			t.Errorf("BroadcastShapes(%v, %v) needsBroadcast = %v, want %v", tt.a, tt.b, needs, tt.needs)
		}
	}
}

func TestBroadcastShapesIncompatible(t *testing.T) {
	if _, _, err := BroadcastShapes(Shape{2, 3}, Shape{4, 3}); err == nil {
		t.Error("expected error for incompatible shapes")
	}
}

func TestFromSlice(t *testing.T) {
	backend := fakeBackend{}

	tsr, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if !tsr.Shape().Equal(Shape{2, 3}) {
		t.Fatalf("unexpected shape %v", tsr.Shape())
	}
	if tsr.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %v, want 6", tsr.At(1, 2))
	}

	tsr.Set(42, 0, 1)
	if tsr.At(0, 1) != 42 {
		t.Errorf("Set did not stick: got %v", tsr.At(0, 1))
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := fakeBackend{}

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestZerosOnesFull(t *testing.T) {
	backend := fakeBackend{}

	z := Zeros[float32](Shape{2, 2}, backend)
	for _, v := range z.Data() {
		if v != 0 {
			t.Fatalf("Zeros contains %v", v)
		}
	}

	o := Ones[float32](Shape{2, 2}, backend)
	for _, v := range o.Data() {
		if v != 1 {
			t.Fatalf("Ones contains %v", v)
		}
	}

	f := Full[float32](Shape{3}, 2.5, backend)
	for _, v := range f.Data() {
		if v != 2.5 {
			t.Fatalf("Full contains %v", v)
		}
	}
}

func TestRandnShape(t *testing.T) {
	backend := fakeBackend{}

	r := Randn[float32](Shape{16, 16}, backend)
	if r.NumElements() != 256 {
		t.Fatalf("unexpected element count %d", r.NumElements())
	}

	// A standard normal sample of 256 values should not be all zero.
	allZero := true
	for _, v := range r.Data() {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("Randn returned all zeros")
	}
}

func TestCloneSharesBuffer(t *testing.T) {
	backend := fakeBackend{}

	a, err := FromSlice([]float32{1, 2, 3}, Shape{3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	b := a.Clone()
	if !a.Raw().IsUnique() {
		// Clone bumps the refcount; neither side is unique now.
		b.Raw().Release()
		if !a.Raw().IsUnique() {
			t.Error("releasing the clone should restore uniqueness")
		}
		return
	}
	t.Error("clone should share the underlying buffer")
}

func TestItem(t *testing.T) {
	backend := fakeBackend{}

	s, err := FromSlice([]float32{7}, Shape{1}, backend)
	if err != nil {
		t.Fatal(err)
	}
	if s.Item() != 7 {
		t.Errorf("Item() = %v, want 7", s.Item())
	}
}
