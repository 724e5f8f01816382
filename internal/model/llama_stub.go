//go:build !llama

package model

import (
	"devplace/internal/accel"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// Llama is unavailable in builds without the "llama" tag.
type Llama struct{}

// OpenLlama fails fast: the llama runtime is not compiled in.
func OpenLlama(m types.Model, ctxSize int) (*Llama, error) {
	return nil, ErrLlamaUnavailable
}

// LlamaLoader returns a Loader that always fails with ErrLlamaUnavailable.
func LlamaLoader(ctxSize int) Loader {
	return func(m types.Model) (Placed, error) { return nil, ErrLlamaUnavailable }
}

func (l *Llama) ToDevice(d accel.Device) (placement.Model, error)    { return nil, ErrLlamaUnavailable }
func (l *Llama) ToDType(dt placement.DType) (placement.Model, error) { return nil, ErrLlamaUnavailable }
func (l *Llama) ID() string                                          { return "" }
func (l *Llama) Device() accel.Device                                { return accel.DeviceCPU }
func (l *Llama) DType() placement.DType                              { return placement.Float32 }
func (l *Llama) Close() error                                        { return nil }
