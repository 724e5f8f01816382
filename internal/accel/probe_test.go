package accel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedMemoryAvailable_FoldsUnsupported(t *testing.T) {
	ok, err := UnifiedMemoryAvailable(Static{MPSErr: ErrCapabilityUnsupported})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = UnifiedMemoryAvailable(Static{MPS: true})
	require.NoError(t, err)
	assert.True(t, ok)

	boom := errors.New("boom")
	_, err = UnifiedMemoryAvailable(Static{MPSErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestDetect_Precedence(t *testing.T) {
	caps, err := Detect(Static{CUDA: true, CUDAMemoryBytes: 8 << 30, XLA: true, MPS: true})
	require.NoError(t, err)
	assert.Equal(t, KindCUDA, caps.Kind)
	assert.Equal(t, uint64(8<<30), caps.CUDAMemoryBytes)
	assert.True(t, caps.XLA)
	assert.Equal(t, XLADevice(0), caps.XLADevice)

	caps, err = Detect(Static{XLA: true, MPS: true})
	require.NoError(t, err)
	assert.Equal(t, KindXLA, caps.Kind)

	caps, err = Detect(Static{MPS: true, HostMemoryBytes: 16 << 30})
	require.NoError(t, err)
	assert.Equal(t, KindMPS, caps.Kind)
	assert.Equal(t, uint64(16<<30), caps.HostMemoryBytes)

	caps, err = Detect(Static{MPSErr: ErrCapabilityUnsupported})
	require.NoError(t, err)
	assert.Equal(t, KindCPU, caps.Kind)
	assert.False(t, caps.MPSSupported)
}

func TestDetect_PropagatesQueryErrors(t *testing.T) {
	boom := errors.New("driver mismatch")
	_, err := Detect(Static{CUDA: true, CUDAErr: boom})
	assert.ErrorIs(t, err, boom)

	_, err = Detect(Static{XLA: true, XLAErr: boom})
	assert.ErrorIs(t, err, boom)

	_, err = Detect(Static{MPSErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestForKind(t *testing.T) {
	for _, k := range []Kind{KindCUDA, KindXLA, KindMPS, KindCPU} {
		caps, err := Detect(ForKind(k, 4<<30))
		require.NoError(t, err)
		assert.Equal(t, k, caps.Kind)
	}
}
