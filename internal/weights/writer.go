package weights

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// Save writes a state dict to path in .i2rw format. Tensors are written
// in lexical key order so identical state dicts produce identical files.
func Save[B tensor.Backend](path, modelType string, sd map[string]*tensor.Tensor[float32, B]) error {
	keys := sortedKeys(sd)

	header := Header{
		FormatVersion: FormatVersion,
		ModelType:     modelType,
		CreatedAt:     time.Now().UTC(),
		Tensors:       make([]TensorMeta, 0, len(keys)),
	}

	hash := sha256.New()
	var offset int64
	for _, name := range keys {
		raw := sd[name].Raw()
		size := int64(raw.ByteSize())
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtypeToString(raw.DType()),
			Shape:  []int(raw.Shape()),
			Offset: offset,
			Size:   size,
		})
		hash.Write(raw.Data()[:size])
		offset += size
	}
	header.Checksum = hex.EncodeToString(hash.Sum(nil))

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create weight file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(Magic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("write header length: %w", err)
	}
	if _, err := f.Write(headerJSON); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Pad to the data alignment boundary.
	written := int64(len(Magic)) + 4 + 8 + int64(len(headerJSON))
	if pad := alignUp(written, dataAlignment) - written; pad > 0 {
		if _, err := f.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("write padding: %w", err)
		}
	}

	for _, name := range keys {
		raw := sd[name].Raw()
		if _, err := f.Write(raw.Data()[:raw.ByteSize()]); err != nil {
			return fmt.Errorf("write tensor %q: %w", name, err)
		}
	}

	return f.Sync()
}
