package nn

import (
	"fmt"
	"strconv"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Sequential chains modules, feeding each one's output to the next.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Append adds a module to the end of the chain.
func (s *Sequential[B]) Append(m Module[B]) {
	s.modules = append(s.modules, m)
}

// Len returns the number of modules in the chain.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Get returns the module at index i.
func (s *Sequential[B]) Get(i int) Module[B] {
	return s.modules[i]
}

// Forward applies every module in order.
func (s *Sequential[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	for _, m := range s.modules {
		x = m.Forward(x)
	}
	return x
}

// Parameters returns the parameters of all contained modules.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// StateDict returns the state of all contained modules, keyed by index.
func (s *Sequential[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	sd := make(map[string]*tensor.Tensor[float32, B])
	for i, m := range s.modules {
		PrefixStateDict(sd, strconv.Itoa(i), m)
	}
	return sd
}

// LoadStateDict restores the state of all contained modules.
func (s *Sequential[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	for i, m := range s.modules {
		child := ExtractStateDict(sd, strconv.Itoa(i))
		if err := m.LoadStateDict(child); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}
