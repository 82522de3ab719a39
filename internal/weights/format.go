// Package weights reads and writes model weight files.
//
// The .i2rw format is a binary container:
//
//	[4 bytes]  magic "I2RW"
//	[4 bytes]  format version (uint32, little endian)
//	[8 bytes]  header length (uint64, little endian)
//	[N bytes]  JSON header
//	[padding]  zero bytes to the next 64-byte boundary
//	[M bytes]  tensor data, concatenated in header order
//
// The header records each tensor's name, dtype, shape, and its offset and
// size within the data section, plus a SHA-256 checksum of the whole data
// section for corruption detection.
package weights

import (
	"fmt"
	"sort"
	"time"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

const (
	// Magic identifies a weight file.
	Magic = "I2RW"
	// FormatVersion is the current file format version.
	FormatVersion = 1
	// dataAlignment aligns the data section for efficient reads.
	dataAlignment = 64
)

// Header is the JSON header of a weight file.
type Header struct {
	FormatVersion int          `json:"format_version"`
	ModelType     string       `json:"model_type"`
	CreatedAt     time.Time    `json:"created_at"`
	Checksum      string       `json:"checksum"` // hex SHA-256 of the data section
	Tensors       []TensorMeta `json:"tensors"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return "float32"
	case tensor.Float64:
		return "float64"
	case tensor.Int32:
		return "int32"
	case tensor.Int64:
		return "int64"
	default:
		return "unknown"
	}
}

func dtypeFromString(s string) (tensor.DataType, error) {
	switch s {
	case "float32":
		return tensor.Float32, nil
	case "float64":
		return tensor.Float64, nil
	case "int32":
		return tensor.Int32, nil
	case "int64":
		return tensor.Int64, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q", s)
	}
}

// sortedKeys returns map keys in lexical order so files are reproducible.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func alignUp(n int64, alignment int64) int64 {
	return (n + alignment - 1) / alignment * alignment
}
