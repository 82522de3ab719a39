// Package model implements the I2RNet image classifier family.
//
// I2RNet inverts the MobileNetV2 bottleneck: blocks compress channels in
// the middle instead of expanding them, keeping the wide representation
// (and the residual connection) at block boundaries. The package provides
// the base network and the V2 variant, both assembled from stage tables.
package model

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/i2r-ml/i2rnet/internal/nn"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Config holds the model hyperparameters.
type Config struct {
	// NumClasses is the classifier output width. Defaults to 1000.
	NumClasses int
	// WidthMult scales every channel count. Defaults to 1.0.
	WidthMult float64
}

func (c *Config) applyDefaults() {
	if c.NumClasses == 0 {
		c.NumClasses = 1000
	}
	if c.WidthMult == 0 {
		c.WidthMult = 1.0
	}
}

// I2RNet is the full classifier: a strided 3x3 stem, a stack of I2RBlocks,
// global average pooling, dropout and a linear head.
type I2RNet[B tensor.Backend] struct {
	features   *nn.Sequential[B]
	avgpool    *nn.GlobalAvgPool2D[B]
	dropout    *nn.Dropout[B]
	classifier *nn.Linear[B]

	headChannels int
	numBlocks    int
}

// NewI2RNet builds the base network (18 blocks at width 1.0).
func NewI2RNet[B tensor.Backend](cfg Config, backend B) *I2RNet[B] {
	return assemble[B](cfg, i2rNetStages, backend)
}

// NewI2RNetV2 builds the V2 variant (15 blocks at width 1.0).
func NewI2RNetV2[B tensor.Backend](cfg Config, backend B) *I2RNet[B] {
	return assemble[B](cfg, i2rNetV2Stages, backend)
}

func assemble[B tensor.Backend](cfg Config, stages []BlockConfig, backend B) *I2RNet[B] {
	cfg.applyDefaults()

	divisor := stemDivisor(cfg.WidthMult)
	inputChannel := MakeDivisible(32*cfg.WidthMult, divisor)

	features := nn.NewSequential[B](conv3x3BN(3, inputChannel, 2, backend))

	numBlocks := 0
	for _, stage := range stages {
		outputChannel := MakeDivisible(float64(stage.Channels)*cfg.WidthMult, divisor)

		features.Append(NewI2RBlock(inputChannel, outputChannel, stage.Stride, stage.ExpandRatio, stage.Transition, backend))
		inputChannel = outputChannel
		numBlocks++

		for i := 1; i < stage.NumBlocks; i++ {
			features.Append(NewI2RBlock(inputChannel, outputChannel, 1, stage.ExpandRatio, false, backend))
			numBlocks++
		}
	}

	headChannels := MakeDivisible(float64(inputChannel), 4)

	return &I2RNet[B]{
		features:     features,
		avgpool:      nn.NewGlobalAvgPool2D[B](),
		dropout:      nn.NewDropout[B](0.2),
		classifier:   nn.NewLinear[B](headChannels, cfg.NumClasses, backend),
		headChannels: headChannels,
		numBlocks:    numBlocks,
	}
}

// Forward classifies a batch of images: [N, 3, H, W] -> [N, num_classes].
func (m *I2RNet[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x = m.features.Forward(x)
	x = m.avgpool.Forward(x)
	x = x.Reshape(x.Shape()[0], m.headChannels)
	x = m.dropout.Forward(x)
	return m.classifier.Forward(x)
}

// NumBlocks returns the number of I2RBlocks in the feature extractor.
func (m *I2RNet[B]) NumBlocks() int {
	return m.numBlocks
}

// HeadChannels returns the channel count entering the classifier.
func (m *I2RNet[B]) HeadChannels() int {
	return m.headChannels
}

// Features returns the feature extractor (stem plus blocks).
func (m *I2RNet[B]) Features() *nn.Sequential[B] {
	return m.features
}

// SetTraining switches dropout between training and evaluation behavior.
// Batch normalization always uses running statistics.
func (m *I2RNet[B]) SetTraining(training bool) {
	m.dropout.SetTraining(training)
}

// Init fills all weights deterministically from the seed, traversing
// layers in definition order:
//
//   - convolutions: N(0, sqrt(2 / (k*k*out_channels))), zero bias
//   - batch norm: gamma 1, beta 0 (running stats stay at mean 0, var 1)
//   - linear: N(0, 0.01), zero bias
func (m *I2RNet[B]) Init(seed uint64) {
	src := rand.NewSource(seed)
	initModule[B](m.features, src)

	nn.FillNormal(m.classifier.Weight(), 0, 0.01, src)
	nn.FillZeros(m.classifier.Bias())
}

func initModule[B tensor.Backend](mod nn.Module[B], src rand.Source) {
	switch layer := mod.(type) {
	case *nn.Sequential[B]:
		for i := 0; i < layer.Len(); i++ {
			initModule[B](layer.Get(i), src)
		}
	case *I2RBlock[B]:
		initModule[B](layer.Layers(), src)
	case *nn.Conv2D[B]:
		shape := layer.Weight().Shape()
		fan := shape[2] * shape[3] * shape[0]
		nn.FillHeNormal(layer.Weight(), fan, src)
		if layer.Bias() != nil {
			nn.FillZeros(layer.Bias())
		}
	case *nn.BatchNorm2D[B]:
		nn.FillOnes(layer.Gamma())
		nn.FillZeros(layer.Beta())
	case *nn.Linear[B]:
		nn.FillNormal(layer.Weight(), 0, 0.01, src)
		nn.FillZeros(layer.Bias())
	}
}

// Parameters returns every learnable parameter in the network.
func (m *I2RNet[B]) Parameters() []*nn.Parameter[B] {
	params := m.features.Parameters()
	params = append(params, m.classifier.Parameters()...)
	return params
}

// StateDict returns the full network state under "features." and
// "classifier." prefixes.
func (m *I2RNet[B]) StateDict() map[string]*tensor.Tensor[float32, B] {
	sd := make(map[string]*tensor.Tensor[float32, B])
	nn.PrefixStateDict(sd, "features", m.features)
	nn.PrefixStateDict(sd, "classifier", m.classifier)
	return sd
}

// LoadStateDict restores the full network state.
func (m *I2RNet[B]) LoadStateDict(sd map[string]*tensor.Tensor[float32, B]) error {
	if err := m.features.LoadStateDict(nn.ExtractStateDict(sd, "features")); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if err := m.classifier.LoadStateDict(nn.ExtractStateDict(sd, "classifier")); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}
