// Package model provides placement.Model implementations.
//
// Handle only tracks where a model would live and in which dtype, which is
// enough for planning and for the API. Llama (build tag "llama") backs the
// same operations with a go-llama.cpp model that is reloaded on every move.
package model

import (
	"fmt"

	"devplace/internal/accel"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// Handle describes a registry model and its current placement. Moves and
// casts mutate the handle and return it, so repeating them is a no-op.
type Handle struct {
	Model  types.Model
	device accel.Device
	dtype  placement.DType
}

// NewHandle returns a handle on the CPU in float32.
func NewHandle(m types.Model) *Handle {
	return &Handle{Model: m, device: accel.DeviceCPU, dtype: placement.Float32}
}

func (h *Handle) ToDevice(d accel.Device) (placement.Model, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("model %s: unknown device %q", h.Model.ID, d)
	}
	h.device = d
	return h, nil
}

func (h *Handle) ToDType(dt placement.DType) (placement.Model, error) {
	switch dt {
	case placement.Float32, placement.BFloat16:
	default:
		return nil, fmt.Errorf("model %s: unsupported dtype %q", h.Model.ID, dt)
	}
	h.dtype = dt
	return h, nil
}

func (h *Handle) Device() accel.Device   { return h.device }
func (h *Handle) DType() placement.DType { return h.dtype }
func (h *Handle) ID() string             { return h.Model.ID }
