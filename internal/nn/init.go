package nn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Weight initializers. All draws go through gonum's distuv so a single
// seeded source reproduces the same network exactly.

// FillNormal fills t with draws from N(mean, std).
func FillNormal[B tensor.Backend](t *tensor.Tensor[float32, B], mean, std float64, src rand.Source) {
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: src}
	data := t.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// FillHeNormal fills t with draws from N(0, sqrt(2/fan)). For a conv
// weight, fan is kernel_h * kernel_w * out_channels.
func FillHeNormal[B tensor.Backend](t *tensor.Tensor[float32, B], fan int, src rand.Source) {
	FillNormal(t, 0, math.Sqrt(2.0/float64(fan)), src)
}

// FillConstant fills t with a constant value.
func FillConstant[B tensor.Backend](t *tensor.Tensor[float32, B], value float32) {
	data := t.Data()
	for i := range data {
		data[i] = value
	}
}

// FillZeros fills t with zeros.
func FillZeros[B tensor.Backend](t *tensor.Tensor[float32, B]) {
	FillConstant(t, 0)
}

// FillOnes fills t with ones.
func FillOnes[B tensor.Backend](t *tensor.Tensor[float32, B]) {
	FillConstant(t, 1)
}
