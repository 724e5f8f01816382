package model

import (
	"devplace/internal/accel"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// Placed is a placement.Model that can report where it is.
type Placed interface {
	placement.Model
	ID() string
	Device() accel.Device
	DType() placement.DType
}

// Loader opens a registry model as a placeable handle.
type Loader func(m types.Model) (Placed, error)

// DescriptorLoader opens models as plain Handles.
func DescriptorLoader(m types.Model) (Placed, error) {
	return NewHandle(m), nil
}

// Closer is implemented by handles that hold runtime resources.
type Closer interface {
	Close() error
}
