package placement

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"devplace/internal/accel"
)

// fakeModel records every call made on it.
type fakeModel struct {
	device accel.Device
	dtype  DType
	calls  []string
	err    error
}

func newFakeModel() *fakeModel { return &fakeModel{device: accel.DeviceCPU, dtype: Float32} }

func (f *fakeModel) ToDevice(d accel.Device) (Model, error) {
	f.calls = append(f.calls, "device:"+string(d))
	if f.err != nil {
		return nil, f.err
	}
	f.device = d
	return f, nil
}

func (f *fakeModel) ToDType(dt DType) (Model, error) {
	f.calls = append(f.calls, "dtype:"+string(dt))
	if f.err != nil {
		return nil, f.err
	}
	f.dtype = dt
	return f, nil
}

// captureLogs routes placement warnings into a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := zlog
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { zlog = prev })
	return &buf
}

const mib = 1024 * 1024
