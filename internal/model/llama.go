//go:build llama

package model

import (
	"errors"
	"fmt"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"

	"devplace/internal/accel"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// offloadAll asks llama.cpp to put every layer on the GPU.
const offloadAll = 999

// Llama is a GGUF model loaded in-process. Moving it to a GPU reloads it
// with all layers offloaded; casting to bfloat16 reloads it with a 16-bit
// KV cache, which is the reduced-precision knob llama.cpp exposes.
type Llama struct {
	meta    types.Model
	ctxSize int

	gpuLayers int
	f16       bool
	device    accel.Device
	dtype     placement.DType
	model     *llama.LLama
}

// OpenLlama loads m on the CPU.
func OpenLlama(m types.Model, ctxSize int) (*Llama, error) {
	if strings.TrimSpace(m.Path) == "" {
		return nil, errors.New("model path is empty")
	}
	l := &Llama{meta: m, ctxSize: ctxSize, device: accel.DeviceCPU, dtype: placement.Float32}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// LlamaLoader returns a Loader that opens models with go-llama.cpp.
func LlamaLoader(ctxSize int) Loader {
	return func(m types.Model) (Placed, error) { return OpenLlama(m, ctxSize) }
}

func (l *Llama) reload() error {
	opts := []llama.ModelOption{
		llama.SetContext(l.ctxSize),
		llama.SetGPULayers(l.gpuLayers),
	}
	if l.f16 {
		opts = append(opts, llama.EnableF16Memory)
	}
	next, err := llama.New(l.meta.Path, opts...)
	if err != nil {
		return fmt.Errorf("load %s: %w", l.meta.ID, err)
	}
	if l.model != nil {
		l.model.Free()
	}
	l.model = next
	return nil
}

func (l *Llama) ToDevice(d accel.Device) (placement.Model, error) {
	if d == l.device {
		return l, nil
	}
	layers := 0
	switch d {
	case accel.DeviceCPU:
	case accel.DeviceCUDA, accel.DeviceMPS:
		layers = offloadAll
	default:
		return nil, fmt.Errorf("llama: device %q not supported", d)
	}
	prev := l.gpuLayers
	l.gpuLayers = layers
	if err := l.reload(); err != nil {
		l.gpuLayers = prev
		return nil, err
	}
	l.device = d
	return l, nil
}

func (l *Llama) ToDType(dt placement.DType) (placement.Model, error) {
	if dt == l.dtype {
		return l, nil
	}
	var f16 bool
	switch dt {
	case placement.Float32:
	case placement.BFloat16:
		f16 = true
	default:
		return nil, fmt.Errorf("llama: dtype %q not supported", dt)
	}
	prev := l.f16
	l.f16 = f16
	if err := l.reload(); err != nil {
		l.f16 = prev
		return nil, err
	}
	l.dtype = dt
	return l, nil
}

func (l *Llama) ID() string             { return l.meta.ID }
func (l *Llama) Device() accel.Device   { return l.device }
func (l *Llama) DType() placement.DType { return l.dtype }

// Close frees the native model.
func (l *Llama) Close() error {
	if l.model != nil {
		l.model.Free()
		l.model = nil
	}
	return nil
}
