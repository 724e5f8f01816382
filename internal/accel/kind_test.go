package accel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"cuda": KindCUDA,
		"GPU":  KindCUDA,
		"xla":  KindXLA,
		"tpu":  KindXLA,
		" mps": KindMPS,
		"cpu":  KindCPU,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("auto")
	assert.Error(t, err)
}

func TestDeviceNames(t *testing.T) {
	assert.Equal(t, Device("xla:0"), XLADevice(0))
	assert.True(t, Device("xla:3").IsXLA())
	assert.True(t, Device("xla").IsXLA())
	assert.False(t, Device("xla:x").IsXLA())
	assert.False(t, DeviceCUDA.IsXLA())

	assert.Equal(t, KindXLA, XLADevice(1).Kind())
	assert.Equal(t, KindMPS, DeviceMPS.Kind())
	assert.Equal(t, KindCPU, Device("nope").Kind())

	assert.True(t, DeviceCPU.Valid())
	assert.False(t, Device("metal").Valid())
}
