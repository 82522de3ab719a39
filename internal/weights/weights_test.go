package weights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2r-ml/i2rnet/internal/backend/cpu"
	"github.com/i2r-ml/i2rnet/internal/tensor"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.i2rw")

	w, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{0.5, -0.5}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	sd := map[string]*tensor.Tensor[float32, *cpu.CPUBackend]{
		"classifier.weight": w,
		"classifier.bias":   b,
	}
	require.NoError(t, Save(path, "I2RNetV2", sd))

	loaded, err := Load(path, backend)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, w.Shape(), loaded["classifier.weight"].Shape())
	assert.Equal(t, w.Data(), loaded["classifier.weight"].Data())
	assert.Equal(t, b.Data(), loaded["classifier.bias"].Data())
}

func TestSaveIsDeterministic(t *testing.T) {
	backend := cpu.New()
	dir := t.TempDir()

	w, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	sd := map[string]*tensor.Tensor[float32, *cpu.CPUBackend]{"a": w, "b": w, "c": w}

	pathA := filepath.Join(dir, "a.i2rw")
	pathB := filepath.Join(dir, "b.i2rw")
	require.NoError(t, Save(pathA, "test", sd))
	require.NoError(t, Save(pathB, "test", sd))

	// Data sections must match byte for byte; headers differ only in the
	// creation timestamp, so compare the loaded tensors instead.
	a, err := Load(pathA, backend)
	require.NoError(t, err)
	b, err := Load(pathB, backend)
	require.NoError(t, err)
	for key := range sd {
		assert.Equal(t, a[key].Data(), b[key].Data())
	}
}

func TestLoadRejectsCorruptedData(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.i2rw")

	w, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
	require.NoError(t, err)
	sd := map[string]*tensor.Tensor[float32, *cpu.CPUBackend]{"w": w}
	require.NoError(t, Save(path, "test", sd))

	// Flip a byte in the data section (the last byte of the file).
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Load(path, backend)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "bogus.i2rw")
	require.NoError(t, os.WriteFile(path, []byte("NOPEnope"), 0o644))

	_, err := Load(path, backend)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.i2rw"), cpu.New())
	assert.Error(t, err)
}
