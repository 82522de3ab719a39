// Package main provides the i2rnet CLI: model summaries and single-image
// classification.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/i2r-ml/i2rnet/backend/cpu"
	"github.com/i2r-ml/i2rnet/internal/imageutil"
	"github.com/i2r-ml/i2rnet/internal/weights"
	"github.com/i2r-ml/i2rnet/model"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("i2rnet %s\n", version)
	case "summary":
		if err := runSummary(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "classify":
		if err := runClassify(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("i2rnet - I2RNet image classifier")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  summary     Print model architecture summary")
	fmt.Println("  classify    Classify an image file")
	fmt.Println("  export      Write initialized model weights to a file")
}

func buildModel(v2 bool, widthMult float64, classes int, seed uint64) *model.I2RNet[*cpu.Backend] {
	backend := cpu.New()
	cfg := model.Config{NumClasses: classes, WidthMult: widthMult}

	var net *model.I2RNet[*cpu.Backend]
	if v2 {
		net = model.NewI2RNetV2[*cpu.Backend](cfg, backend)
	} else {
		net = model.NewI2RNet[*cpu.Backend](cfg, backend)
	}
	net.Init(seed)
	return net
}

func runSummary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	v2 := fs.Bool("v2", false, "use the V2 variant")
	widthMult := fs.Float64("width", 1.0, "width multiplier")
	classes := fs.Int("classes", 1000, "number of output classes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	net := buildModel(*v2, *widthMult, *classes, 0)

	name := "I2RNet"
	if *v2 {
		name = "I2RNetV2"
	}

	paramCount := 0
	for _, p := range net.Parameters() {
		paramCount += p.Tensor.NumElements()
	}

	fmt.Printf("%s (width %.2g)\n", name, *widthMult)
	fmt.Printf("  blocks:        %d\n", net.NumBlocks())
	fmt.Printf("  head channels: %d\n", net.HeadChannels())
	fmt.Printf("  classes:       %d\n", *classes)
	fmt.Printf("  parameters:    %d\n", paramCount)
	return nil
}

func runClassify(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	imagePath := fs.String("image", "", "path to a JPEG or PNG image (required)")
	v2 := fs.Bool("v2", false, "use the V2 variant")
	widthMult := fs.Float64("width", 1.0, "width multiplier")
	classes := fs.Int("classes", 1000, "number of output classes")
	seed := fs.Uint64("seed", 42, "weight initialization seed")
	weightsPath := fs.String("weights", "", "load weights from a .i2rw file instead of seeding")
	topK := fs.Int("top", 5, "number of top predictions to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *imagePath == "" {
		return fmt.Errorf("missing required -image flag")
	}

	net := buildModel(*v2, *widthMult, *classes, *seed)
	if *weightsPath != "" {
		sd, err := weights.Load(*weightsPath, cpu.New())
		if err != nil {
			return err
		}
		if err := net.LoadStateDict(sd); err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
	}

	input, err := imageutil.LoadTensor(*imagePath, cpu.New())
	if err != nil {
		return err
	}

	logits := net.Forward(input)
	probs := softmax(logits.Data())

	type prediction struct {
		class int
		prob  float64
	}
	preds := make([]prediction, len(probs))
	for i, p := range probs {
		preds[i] = prediction{class: i, prob: p}
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].prob > preds[j].prob })

	k := *topK
	if k > len(preds) {
		k = len(preds)
	}
	fmt.Printf("%s\n", *imagePath)
	for _, p := range preds[:k] {
		fmt.Printf("  class %4d  %.4f\n", p.class, p.prob)
	}
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "model.i2rw", "output weight file path")
	v2 := fs.Bool("v2", false, "use the V2 variant")
	widthMult := fs.Float64("width", 1.0, "width multiplier")
	classes := fs.Int("classes", 1000, "number of output classes")
	seed := fs.Uint64("seed", 42, "weight initialization seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	net := buildModel(*v2, *widthMult, *classes, *seed)

	name := "I2RNet"
	if *v2 {
		name = "I2RNetV2"
	}
	if err := weights.Save(*out, name, net.StateDict()); err != nil {
		return err
	}
	fmt.Printf("wrote %s weights to %s\n", name, *out)
	return nil
}

// softmax converts logits to probabilities in float64, shifting by the
// maximum for numerical stability.
func softmax(logits []float32) []float64 {
	x := make([]float64, len(logits))
	for i, v := range logits {
		x[i] = float64(v)
	}

	shift := floats.Max(x)
	for i := range x {
		x[i] = math.Exp(x[i] - shift)
	}
	floats.Scale(1/floats.Sum(x), x)
	return x
}
