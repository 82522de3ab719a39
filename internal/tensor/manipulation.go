package tensor

// Cat concatenates tensors along a dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension.
//
// Example:
//
//	a := tensor.Ones[float32](Shape{2, 3}, backend)
//	b := tensor.Zeros[float32](Shape{2, 3}, backend)
//	c := tensor.Cat([]*Tensor[float32, B]{a, b}, 0) // Shape: [4, 3]
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}

	backend := tensors[0].backend
	result := backend.Cat(raws, dim)
	return New[T, B](result, backend)
}

// Chunk splits the tensor into n equal parts along a dimension.
// The dimension size must be divisible by n.
func (t *Tensor[T, B]) Chunk(n, dim int) []*Tensor[T, B] {
	raws := t.backend.Chunk(t.raw, n, dim)

	results := make([]*Tensor[T, B], len(raws))
	for i, raw := range raws {
		results[i] = New[T, B](raw, t.backend)
	}
	return results
}

// Narrow returns a copy of the tensor restricted to [start, start+length)
// along the given dimension.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 8, 4, 4}, backend)
//	y := x.Narrow(1, 0, 3) // Shape: [2, 3, 4, 4]
func (t *Tensor[T, B]) Narrow(dim, start, length int) *Tensor[T, B] {
	result := t.backend.Narrow(t.raw, dim, start, length)
	return New[T, B](result, t.backend)
}

// Unsqueeze adds a dimension of size 1 at the specified position.
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	result := t.backend.Unsqueeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Squeeze removes a dimension of size 1 at the specified position.
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	result := t.backend.Squeeze(t.raw, dim)
	return New[T, B](result, t.backend)
}
