package weights

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/i2r-ml/i2rnet/internal/tensor"
)

// ErrChecksumMismatch reports a corrupted data section.
var ErrChecksumMismatch = errors.New("weights: checksum mismatch")

// Load reads a state dict from a .i2rw file. Every tensor in the file
// must be float32; the checksum of the data section is verified.
func Load[B tensor.Backend](path string, backend B) (map[string]*tensor.Tensor[float32, B], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weight file: %w", err)
	}
	defer f.Close()

	header, dataStart, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	sd := make(map[string]*tensor.Tensor[float32, B], len(header.Tensors))
	hash := sha256.New()

	for _, meta := range header.Tensors {
		dt, err := dtypeFromString(meta.DType)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", meta.Name, err)
		}
		if dt != tensor.Float32 {
			return nil, fmt.Errorf("tensor %q: dtype %s not supported for model weights", meta.Name, meta.DType)
		}

		shape := tensor.Shape(meta.Shape)
		if int64(shape.NumElements()*dt.Size()) != meta.Size {
			return nil, fmt.Errorf("tensor %q: size %d does not match shape %v", meta.Name, meta.Size, shape)
		}

		raw, err := tensor.NewRaw(shape, dt, backend.Device())
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", meta.Name, err)
		}

		buf := raw.Data()[:meta.Size]
		if _, err := f.ReadAt(buf, dataStart+meta.Offset); err != nil {
			return nil, fmt.Errorf("read tensor %q: %w", meta.Name, err)
		}
		hash.Write(buf)

		sd[meta.Name] = tensor.New[float32, B](raw, backend)
	}

	if hex.EncodeToString(hash.Sum(nil)) != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	return sd, nil
}

// readHeader parses the fixed prefix and JSON header, returning the
// header and the file offset of the data section.
func readHeader(f *os.File) (*Header, int64, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, 0, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, 0, fmt.Errorf("not a weight file (magic %q)", magic)
	}

	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, 0, fmt.Errorf("read version: %w", err)
	}
	if version != FormatVersion {
		return nil, 0, fmt.Errorf("unsupported format version %d", version)
	}

	var headerLen uint64
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		return nil, 0, fmt.Errorf("read header length: %w", err)
	}

	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerJSON); err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, 0, fmt.Errorf("parse header: %w", err)
	}

	dataStart := alignUp(int64(len(Magic))+4+8+int64(headerLen), dataAlignment)
	return &header, dataStart, nil
}
